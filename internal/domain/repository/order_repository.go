package repository

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	// Create persiste el pedido con sus items (usar dentro de la tx de checkout).
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (transiciones de estado).
	GetForUpdate(id string) (*entity.Order, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Order, error)
	UpdateStatus(orderID, status string) error
}
