package repository

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// CartLineRepository define el puerto de persistencia del carrito remoto
// (por usuario autenticado). La fusión por identidad la hace la estrategia
// de aplicación; este puerto solo persiste líneas.
type CartLineRepository interface {
	ListByUser(userID string) ([]entity.CartLine, error)
	Insert(userID string, line entity.CartLine) error
	UpdateQuantity(lineID string, quantity int64) error
	// UpdateQuantityByProduct fija la cantidad en TODAS las líneas del producto
	// (semántica observada del carrito: operaciones por producto, no por variante).
	UpdateQuantityByProduct(userID, productID string, quantity int64) error
	DeleteByProduct(userID, productID string) error
	DeleteByUser(userID string) error
}
