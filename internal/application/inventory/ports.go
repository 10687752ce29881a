package inventory

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del motor de inventario:
// ajuste de stock, entrada de auditoría y recálculo del agregado del producto
// entran o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		logRepo repository.InventoryLogRepository,
		productRepo repository.ProductRepository,
		variantRepo repository.VariantRepository,
	) error) error
}

// EventPublisher publica eventos de dominio tras un ajuste confirmado.
// Best effort: un fallo de publicación nunca revierte ni falla el ajuste.
type EventPublisher interface {
	PublishStockAdjusted(ctx context.Context, productID, variantID string, change, finalStock int64, reason string)
}
