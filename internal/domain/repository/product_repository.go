package repository

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// ProductFilter criterios de listado del catálogo.
type ProductFilter struct {
	CategoryID string
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Usar dentro de una tx.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el stock propio del producto (lo usa el motor de inventario;
	// con variantes siempre recibe la suma recalculada).
	UpdateStock(productID string, quantity int64) error
	List(filter ProductFilter) ([]*entity.Product, error)
	// ListByIDs resuelve snapshots para hidratar líneas de carrito; los IDs
	// inexistentes simplemente no aparecen en el resultado.
	ListByIDs(ids []string) ([]*entity.Product, error)
	// ListLowStock devuelve productos en low_stock/out_of_stock según su umbral efectivo.
	ListLowStock(defaultThreshold int64, limit int) ([]*entity.Product, error)
	Delete(id string) error
}
