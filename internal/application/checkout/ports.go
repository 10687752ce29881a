package checkout

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// TxFunc recibe los repositorios ligados a la transacción de checkout.
// El pedido, el descuento de stock, las entradas de auditoría y el vaciado
// del carrito deben confirmar o revertir juntos.
type TxFunc func(
	orders repository.OrderRepository,
	carts repository.CartLineRepository,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	logs repository.InventoryLogRepository,
) error

// TxRunner ejecuta fn dentro de una transacción de base de datos.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn TxFunc) error
}

// EventPublisher emite eventos de pedidos al broker. Best effort: un fallo
// de publicación no revierte el pedido ya confirmado.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *entity.Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID, from, to string) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	Generate(order *entity.Order, customer *entity.User) ([]byte, error)
}
