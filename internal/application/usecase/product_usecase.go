package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/inventory"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// ProductUseCase administra el catálogo: productos, variantes y categorías.
// El stock NUNCA se edita por aquí; los únicos caminos que mutan stock son
// el motor de ajustes de inventario y el checkout. Crear o eliminar una
// variante sí recalcula el agregado del padre, con auditoría, en transacción.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	log          zerolog.Logger
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	txRunner inventory.TxRunner,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		log:          log,
	}
}

// Create da de alta un producto. El stock inicial queda auditado con motivo
// "correction" (conteo inicial) para que el historial arranque completo.
func (uc *ProductUseCase) Create(ctx context.Context, req dto.CreateProductRequest, userID string) (*entity.Product, error) {
	if req.SKU == "" || req.Name == "" || req.Price.IsNegative() || req.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(req.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Images:            req.Images,
		StockQuantity:     req.InitialStock,
		LowStockThreshold: req.LowStockThreshold,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		logRepo repository.InventoryLogRepository,
		productRepo repository.ProductRepository,
		_ repository.VariantRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if req.InitialStock == 0 {
			return nil
		}
		return logRepo.Create(&entity.InventoryLogEntry{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			ChangeAmount: req.InitialStock,
			FinalStock:   req.InitialStock,
			Reason:       entity.ReasonCorrection,
			Note:         "stock inicial",
			CreatedAt:    now,
			CreatedBy:    userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Msg("producto creado")
	return product, nil
}

// Get devuelve el producto con sus variantes.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, []*entity.Variant, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	variants, err := uc.variantRepo.ListByProduct(id)
	if err != nil {
		return nil, nil, err
	}
	return product, variants, nil
}

// List lista el catálogo según filtro.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.productRepo.List(filter)
}

// Update aplica cambios parciales. Los campos de stock no son editables aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *req.Price
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = req.LowStockThreshold
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina (desactiva) el producto del catálogo.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// CreateVariant agrega una variante. El stock del padre pasa a ser la suma de
// variantes, así que se recalcula en la misma transacción; el stock inicial de
// la variante queda auditado con motivo "correction".
func (uc *ProductUseCase) CreateVariant(ctx context.Context, productID string, req dto.CreateVariantRequest, userID string) (*entity.Variant, error) {
	if req.SKU == "" || len(req.Attributes) == 0 || req.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	variant := &entity.Variant{
		ID:            uuid.New().String(),
		ProductID:     productID,
		SKU:           req.SKU,
		Attributes:    req.Attributes,
		PriceDelta:    req.PriceDelta,
		StockQuantity: req.InitialStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(
		logRepo repository.InventoryLogRepository,
		productRepo repository.ProductRepository,
		variantRepo repository.VariantRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := variantRepo.Create(variant); err != nil {
			return err
		}
		total, err := variantRepo.SumStockByProduct(productID)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateStock(productID, total); err != nil {
			return err
		}
		if req.InitialStock == 0 {
			return nil
		}
		variantID := variant.ID
		return logRepo.Create(&entity.InventoryLogEntry{
			ID:           uuid.New().String(),
			ProductID:    productID,
			VariantID:    &variantID,
			ChangeAmount: req.InitialStock,
			FinalStock:   req.InitialStock,
			Reason:       entity.ReasonCorrection,
			Note:         "stock inicial de variante",
			CreatedAt:    now,
			CreatedBy:    userID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("product_id", productID).Str("variant_id", variant.ID).Msg("variante creada")
	return variant, nil
}

// UpdateVariant edita atributos, SKU o delta de precio. Nunca el stock.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, productID, variantID string, req dto.UpdateVariantRequest) (*entity.Variant, error) {
	variant, err := uc.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != productID {
		return nil, domain.ErrNotFound
	}

	if req.SKU != nil {
		variant.SKU = *req.SKU
	}
	if req.Attributes != nil {
		variant.Attributes = req.Attributes
	}
	if req.PriceDelta != nil {
		variant.PriceDelta = *req.PriceDelta
	}
	variant.UpdatedAt = time.Now()

	if err := uc.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant elimina la variante y recalcula el agregado del padre; el
// stock retirado queda auditado para que la suma del historial siga cuadrando.
func (uc *ProductUseCase) DeleteVariant(ctx context.Context, productID, variantID, userID string) error {
	return uc.txRunner.Run(ctx, func(
		logRepo repository.InventoryLogRepository,
		productRepo repository.ProductRepository,
		variantRepo repository.VariantRepository,
	) error {
		variant, err := variantRepo.GetForUpdate(variantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.ProductID != productID {
			return domain.ErrNotFound
		}
		removed := variant.StockQuantity
		if err := variantRepo.Delete(variantID); err != nil {
			return err
		}
		total, err := variantRepo.SumStockByProduct(productID)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateStock(productID, total); err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		vid := variantID
		return logRepo.Create(&entity.InventoryLogEntry{
			ID:           uuid.New().String(),
			ProductID:    productID,
			VariantID:    &vid,
			ChangeAmount: -removed,
			Reason:       entity.ReasonCorrection,
			Note:         "variante eliminada",
			CreatedAt:    time.Now(),
			CreatedBy:    userID,
		})
	})
}

// CreateCategory alta de categoría de catálogo.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, name, slug string) (*entity.Category, error) {
	if name == "" || slug == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lista todas las categorías.
func (uc *ProductUseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.List()
}

// DeleteCategory elimina una categoría.
func (uc *ProductUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.categoryRepo.Delete(id)
}
