package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest body para POST /api/orders (confirmar el carrito actual).
type CheckoutRequest struct {
	BranchID string `json:"branch_id,omitempty"` // sucursal de despacho/retiro
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse línea de pedido con snapshot denormalizado.
type OrderItemResponse struct {
	ProductID        string            `json:"product_id"`
	VariantID        *string           `json:"variant_id,omitempty"`
	Name             string            `json:"name"`
	VariantSelection map[string]string `json:"variant_selection,omitempty"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Quantity         int64             `json:"quantity"`
}

// OrderResponse pedido completo.
type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	BranchID  *string             `json:"branch_id,omitempty"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
