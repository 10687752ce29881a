package cart

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Storage es la estrategia de persistencia del carrito. Hay dos implementaciones
// intercambiables: carrito de invitado (Redis, por sesión) y carrito remoto
// (PostgreSQL, por usuario autenticado). La estrategia se elige una vez por
// transición de identidad y nunca se mezcla a mitad de operación.
//
// Contrato común a ambas:
//   - AddItem fusiona por identidad (producto + selección de variante
//     estructuralmente igual): si existe línea equivalente suma cantidades.
//   - RemoveItem y UpdateQuantity operan sobre TODAS las líneas del producto.
//   - UpdateQuantity con cantidad <= 0 equivale a RemoveItem.
//
// Los fallos de lectura/escritura se devuelven como *domain.PersistenceError.
type Storage interface {
	AddItem(ctx context.Context, line entity.CartLine) error
	RemoveItem(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, quantity int64) error
	Clear(ctx context.Context) error
	Load(ctx context.Context) ([]entity.CartLine, error)
}

// ProductLookup resuelve snapshots de producto por lote para hidratar líneas en Sync.
type ProductLookup interface {
	FetchByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
}
