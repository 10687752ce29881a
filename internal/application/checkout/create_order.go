package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// CreateOrderUseCase confirma el carrito actual del usuario como pedido:
// en una única transacción descuenta stock (con bloqueo de fila), escribe
// una entrada de auditoría por cada línea con motivo "sale", crea el pedido
// con precios denormalizados y vacía el carrito.
type CreateOrderUseCase struct {
	txRunner TxRunner
	events   EventPublisher
	log      zerolog.Logger
}

// NewCreateOrderUseCase construye el caso de uso. events puede ser nil.
func NewCreateOrderUseCase(txRunner TxRunner, events EventPublisher, log zerolog.Logger) *CreateOrderUseCase {
	return &CreateOrderUseCase{txRunner: txRunner, events: events, log: log}
}

// CreateInput entrada del checkout.
type CreateInput struct {
	UserID   string
	BranchID string // sucursal de despacho/retiro (opcional)
}

// Create ejecuta el checkout. Si alguna línea no tiene stock suficiente,
// toda la operación se revierte y el carrito queda intacto.
func (uc *CreateOrderUseCase) Create(ctx context.Context, input CreateInput) (*entity.Order, error) {
	if input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var order *entity.Order

	err := uc.txRunner.RunCheckout(ctx, func(
		orders repository.OrderRepository,
		carts repository.CartLineRepository,
		products repository.ProductRepository,
		variants repository.VariantRepository,
		logs repository.InventoryLogRepository,
	) error {
		lines, err := carts.ListByUser(input.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		order = &entity.Order{
			ID:        uuid.New().String(),
			UserID:    input.UserID,
			Status:    entity.OrderStatusPending,
			Total:     decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if input.BranchID != "" {
			branchID := input.BranchID
			order.BranchID = &branchID
		}

		for _, line := range lines {
			item, err := uc.reserveLine(products, variants, logs, line, input.UserID, now)
			if err != nil {
				return err
			}
			item.OrderID = order.ID
			order.Items = append(order.Items, *item)
			order.Total = order.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
		}

		if err := orders.Create(order); err != nil {
			return err
		}
		return carts.DeleteByUser(input.UserID)
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "checkout", Err: err}
	}

	if uc.events != nil {
		if pubErr := uc.events.PublishOrderCreated(ctx, order); pubErr != nil {
			uc.log.Warn().Err(pubErr).Str("order_id", order.ID).Msg("no se pudo publicar order.created")
		}
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("user_id", input.UserID).
		Int("items", len(order.Items)).
		Str("total", order.Total.String()).
		Msg("pedido creado")
	return order, nil
}

// reserveLine bloquea el producto (y la variante si aplica), valida stock,
// descuenta y deja la entrada de auditoría con motivo "sale".
func (uc *CreateOrderUseCase) reserveLine(
	products repository.ProductRepository,
	variants repository.VariantRepository,
	logs repository.InventoryLogRepository,
	line entity.CartLine,
	userID string,
	now time.Time,
) (*entity.OrderItem, error) {
	product, err := products.GetForUpdate(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}

	item := &entity.OrderItem{
		ID:               uuid.New().String(),
		ProductID:        product.ID,
		Name:             product.Name,
		VariantSelection: line.VariantSelection,
		UnitPrice:        product.Price,
		Quantity:         line.Quantity,
	}
	entry := &entity.InventoryLogEntry{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		ChangeAmount: -line.Quantity,
		Reason:       entity.ReasonSale,
		CreatedAt:    now,
		CreatedBy:    userID,
	}

	if len(line.VariantSelection) > 0 {
		variant, err := uc.lockVariant(variants, product.ID, line.VariantSelection)
		if err != nil {
			return nil, err
		}
		newQty := variant.StockQuantity - line.Quantity
		if newQty < 0 {
			return nil, &domain.StockAdjustmentError{ProductID: product.ID, VariantID: variant.ID, Err: domain.ErrInsufficientStock}
		}
		if err := variants.UpdateStock(variant.ID, newQty); err != nil {
			return nil, err
		}
		total, err := variants.SumStockByProduct(product.ID)
		if err != nil {
			return nil, err
		}
		if err := products.UpdateStock(product.ID, total); err != nil {
			return nil, err
		}
		variantID := variant.ID
		item.VariantID = &variantID
		item.UnitPrice = product.Price.Add(variant.PriceDelta)
		entry.VariantID = &variantID
		entry.FinalStock = newQty
	} else {
		count, err := variants.CountByProduct(product.ID)
		if err != nil {
			return nil, err
		}
		// Producto con variantes exige selección: la línea sin selección es inválida.
		if count > 0 {
			return nil, domain.ErrInvalidInput
		}
		newQty := product.StockQuantity - line.Quantity
		if newQty < 0 {
			return nil, &domain.StockAdjustmentError{ProductID: product.ID, Err: domain.ErrInsufficientStock}
		}
		if err := products.UpdateStock(product.ID, newQty); err != nil {
			return nil, err
		}
		entry.FinalStock = newQty
	}

	if err := logs.Create(entry); err != nil {
		return nil, err
	}
	return item, nil
}

// lockVariant resuelve la variante por selección de atributos y la bloquea.
func (uc *CreateOrderUseCase) lockVariant(
	variants repository.VariantRepository,
	productID string,
	selection map[string]string,
) (*entity.Variant, error) {
	list, err := variants.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	for _, v := range list {
		if v.MatchesSelection(selection) {
			return variants.GetForUpdate(v.ID)
		}
	}
	return nil, domain.ErrNotFound
}

func isDomainErr(err error) bool {
	var stockErr *domain.StockAdjustmentError
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.As(err, &stockErr)
}
