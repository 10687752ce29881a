package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Order.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderTransition indica si el cambio de estado es permitido.
// pending → paid → shipped → delivered; cancelación solo desde pending o paid.
func ValidOrderTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPaid || to == OrderStatusCancelled
	case OrderStatusPaid:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	}
	return false
}

// Order representa un pedido confirmado desde el carrito.
type Order struct {
	ID        string
	UserID    string
	BranchID  *string // sucursal de despacho/retiro (opcional)
	Status    string
	Total     decimal.Decimal
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem es una línea del pedido con nombre y precio denormalizados
// (snapshot al momento de la compra; no sigue cambios posteriores del catálogo).
type OrderItem struct {
	ID               string
	OrderID          string
	ProductID        string
	VariantID        *string
	Name             string
	VariantSelection map[string]string
	UnitPrice        decimal.Decimal
	Quantity         int64
}
