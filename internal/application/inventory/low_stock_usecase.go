package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// LowStockUseCase genera el reporte de productos con stock bajo o agotado para
// el panel de administración, con desglose por variante cuando aplica.
type LowStockUseCase struct {
	productRepo      repository.ProductRepository
	variantRepo      repository.VariantRepository
	defaultThreshold int64
}

// NewLowStockUseCase construye el caso de uso de reporte de stock bajo.
func NewLowStockUseCase(productRepo repository.ProductRepository, variantRepo repository.VariantRepository, defaultThreshold int64) *LowStockUseCase {
	if defaultThreshold <= 0 {
		defaultThreshold = entity.DefaultLowStockThreshold
	}
	return &LowStockUseCase{
		productRepo:      productRepo,
		variantRepo:      variantRepo,
		defaultThreshold: defaultThreshold,
	}
}

// GenerateLowStockReport devuelve los productos en low_stock/out_of_stock
// ordenados por severidad (agotados primero, luego menor stock). La
// clasificación usa la misma función pura que el catálogo: no se persiste.
func (uc *LowStockUseCase) GenerateLowStockReport(ctx context.Context, limit int) ([]dto.LowStockItemDTO, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	products, err := uc.productRepo.ListLowStock(uc.defaultThreshold, limit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.LowStockItemDTO{}, nil
	}

	items := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		item := dto.LowStockItemDTO{
			ProductID:   p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			Stock:       p.StockQuantity,
			Threshold:   p.Threshold(),
			StockStatus: string(p.StockStatus()),
		}
		variants, err := uc.variantRepo.ListByProduct(p.ID)
		if err != nil {
			return nil, err
		}
		for _, v := range variants {
			item.Variants = append(item.Variants, dto.LowStockVariantDTO{
				VariantID:   v.ID,
				SKU:         v.SKU,
				Attributes:  v.Attributes,
				Stock:       v.StockQuantity,
				StockStatus: string(entity.ClassifyStock(v.StockQuantity, p.Threshold())),
			})
		}
		items = append(items, item)
	}

	// Agotados primero; dentro de cada grupo, menor stock primero.
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.Stock <= 0) != (b.Stock <= 0) {
			return a.Stock <= 0
		}
		return a.Stock < b.Stock
	})
	return items, nil
}
