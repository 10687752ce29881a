package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderUseCase consultas y transiciones de estado de pedidos. La cancelación
// restituye el stock descontado en el checkout, con auditoría motivo "return".
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	txRunner  TxRunner
	events    EventPublisher
	receipts  ReceiptGenerator
	log       zerolog.Logger
}

// NewOrderUseCase construye el caso de uso. events y receipts pueden ser nil.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	txRunner TxRunner,
	events EventPublisher,
	receipts ReceiptGenerator,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		txRunner:  txRunner,
		events:    events,
		receipts:  receipts,
		log:       log,
	}
}

// GetByID devuelve el pedido. Si requesterID no es vacío, exige que el pedido
// le pertenezca (los clientes solo ven sus propios pedidos).
func (uc *OrderUseCase) GetByID(ctx context.Context, orderID, requesterID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if requesterID != "" && order.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// ListByUser pedidos del usuario, más recientes primero.
func (uc *OrderUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.ListByUser(userID, clampLimit(limit), clampOffset(offset))
}

// ListByStatus listado para el panel de personal; status vacío lista todos.
func (uc *OrderUseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.ListByStatus(status, clampLimit(limit), clampOffset(offset))
}

// UpdateStatus aplica una transición de estado validada. La transición a
// cancelled restituye el stock de cada línea dentro de la misma transacción.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID, to, actorID string) (*entity.Order, error) {
	if !validOrderStatus(to) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Order
	var from string

	err := uc.txRunner.RunCheckout(ctx, func(
		orders repository.OrderRepository,
		_ repository.CartLineRepository,
		products repository.ProductRepository,
		variants repository.VariantRepository,
		logs repository.InventoryLogRepository,
	) error {
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		from = order.Status
		if !entity.ValidOrderTransition(order.Status, to) {
			return domain.ErrConflict
		}

		if to == entity.OrderStatusCancelled {
			if err := uc.restoreStock(products, variants, logs, order, actorID); err != nil {
				return err
			}
		}
		if err := orders.UpdateStatus(orderID, to); err != nil {
			return err
		}
		order.Status = to
		updated = order
		return nil
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "order_status", Err: err}
	}

	if uc.events != nil {
		if pubErr := uc.events.PublishOrderStatusChanged(ctx, orderID, from, to); pubErr != nil {
			uc.log.Warn().Err(pubErr).Str("order_id", orderID).Msg("no se pudo publicar order.status_changed")
		}
	}
	uc.log.Info().Str("order_id", orderID).Str("from", from).Str("to", to).Msg("estado de pedido actualizado")
	return updated, nil
}

// Cancel cancela el pedido en nombre de su dueño.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return uc.UpdateStatus(ctx, orderID, entity.OrderStatusCancelled, userID)
}

// Receipt genera el comprobante PDF del pedido.
func (uc *OrderUseCase) Receipt(ctx context.Context, orderID, requesterID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, domain.ErrNotFound
	}
	order, err := uc.GetByID(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	return uc.receipts.Generate(order, customer)
}

// restoreStock devuelve el stock de cada línea del pedido con auditoría.
func (uc *OrderUseCase) restoreStock(
	products repository.ProductRepository,
	variants repository.VariantRepository,
	logs repository.InventoryLogRepository,
	order *entity.Order,
	actorID string,
) error {
	now := time.Now()
	for _, item := range order.Items {
		entry := &entity.InventoryLogEntry{
			ID:           uuid.New().String(),
			ProductID:    item.ProductID,
			ChangeAmount: item.Quantity,
			Reason:       entity.ReasonReturn,
			Note:         "cancelación de pedido " + order.ID,
			CreatedAt:    now,
			CreatedBy:    actorID,
		}
		if item.VariantID != nil {
			variant, err := variants.GetForUpdate(*item.VariantID)
			if err != nil {
				return err
			}
			if variant == nil {
				return domain.ErrNotFound
			}
			newQty := variant.StockQuantity + item.Quantity
			if err := variants.UpdateStock(variant.ID, newQty); err != nil {
				return err
			}
			total, err := variants.SumStockByProduct(item.ProductID)
			if err != nil {
				return err
			}
			if err := products.UpdateStock(item.ProductID, total); err != nil {
				return err
			}
			entry.VariantID = item.VariantID
			entry.FinalStock = newQty
		} else {
			product, err := products.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newQty := product.StockQuantity + item.Quantity
			if err := products.UpdateStock(item.ProductID, newQty); err != nil {
				return err
			}
			entry.FinalStock = newQty
		}
		if err := logs.Create(entry); err != nil {
			return err
		}
	}
	return nil
}

func validOrderStatus(s string) bool {
	switch s {
	case entity.OrderStatusPending, entity.OrderStatusPaid, entity.OrderStatusShipped,
		entity.OrderStatusDelivered, entity.OrderStatusCancelled:
		return true
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
