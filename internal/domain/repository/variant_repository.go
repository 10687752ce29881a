package repository

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// VariantRepository define el puerto de persistencia para variantes de producto.
type VariantRepository interface {
	Create(variant *entity.Variant) error
	GetByID(id string) (*entity.Variant, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Usar dentro de una tx.
	GetForUpdate(id string) (*entity.Variant, error)
	ListByProduct(productID string) ([]*entity.Variant, error)
	Update(variant *entity.Variant) error
	// UpdateStock fija el stock de la variante (motor de inventario).
	UpdateStock(variantID string, quantity int64) error
	// SumStockByProduct suma el stock de todas las variantes del producto.
	SumStockByProduct(productID string) (int64, error)
	// CountByProduct cuenta las variantes del producto (0 = stock propio autoritativo).
	CountByProduct(productID string) (int, error)
	Delete(id string) error
}
