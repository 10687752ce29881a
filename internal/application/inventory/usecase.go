package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// AdjustStockUseCase aplica deltas de stock auditados de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), aplicación del delta, UNA entrada de
// auditoría con el stock resultante y, si el objetivo es una variante,
// recálculo del stock agregado del producto padre. Todo o nada.
type AdjustStockUseCase struct {
	txRunner TxRunner
	events   EventPublisher
	log      zerolog.Logger
}

// NewAdjustStockUseCase construye el caso de uso. events puede ser nil.
func NewAdjustStockUseCase(txRunner TxRunner, events EventPublisher, log zerolog.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, events: events, log: log}
}

// AdjustInput entrada para un ajuste manual de stock.
type AdjustInput struct {
	ProductID    string
	VariantID    string // vacío = ajuste al stock propio del producto
	ChangeAmount int64  // firmado, nunca cero
	Reason       string
	Note         string
	UserID       string
}

// Adjust valida y ejecuta el ajuste. Nunca ajusta en silencio: cada mutación
// de stock produce exactamente una entrada de auditoría. Los errores de
// infraestructura se envuelven en *domain.StockAdjustmentError; el llamador
// no debe asumir aplicación parcial.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, input AdjustInput) (*entity.InventoryLogEntry, error) {
	if input.ProductID == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	// El delta cero se rechaza antes de abrir transacción.
	if input.ChangeAmount == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidAdjustmentReason(input.Reason) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var entry *entity.InventoryLogEntry

	err := uc.txRunner.Run(ctx, func(
		logRepo repository.InventoryLogRepository,
		productRepo repository.ProductRepository,
		variantRepo repository.VariantRepository,
	) error {
		var err error
		if input.VariantID != "" {
			entry, err = uc.adjustVariant(logRepo, productRepo, variantRepo, input, now)
		} else {
			entry, err = uc.adjustProduct(logRepo, productRepo, variantRepo, input, now)
		}
		return err
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, &domain.StockAdjustmentError{ProductID: input.ProductID, VariantID: input.VariantID, Err: err}
	}

	if uc.events != nil {
		uc.events.PublishStockAdjusted(ctx, input.ProductID, input.VariantID, input.ChangeAmount, entry.FinalStock, input.Reason)
	}
	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("variant_id", input.VariantID).
		Int64("change", input.ChangeAmount).
		Int64("final_stock", entry.FinalStock).
		Str("reason", input.Reason).
		Msg("ajuste de stock aplicado")
	return entry, nil
}

// adjustProduct ajusta el stock propio del producto. Rechazado si el producto
// tiene variantes: en ese caso el stock del producto es siempre la suma de las
// variantes y nunca un objetivo directo.
func (uc *AdjustStockUseCase) adjustProduct(
	logRepo repository.InventoryLogRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	input AdjustInput,
	now time.Time,
) (*entity.InventoryLogEntry, error) {
	count, err := variantRepo.CountByProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrProductHasVariants
	}

	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newQty := product.StockQuantity + input.ChangeAmount
	if newQty < 0 {
		return nil, domain.ErrInsufficientStock
	}
	if err := productRepo.UpdateStock(input.ProductID, newQty); err != nil {
		return nil, err
	}

	entry := &entity.InventoryLogEntry{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		ChangeAmount: input.ChangeAmount,
		FinalStock:   newQty,
		Reason:       input.Reason,
		Note:         input.Note,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if err := logRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// adjustVariant ajusta el stock de una variante y recalcula el agregado del
// producto padre (suma de variantes) en la misma transacción.
func (uc *AdjustStockUseCase) adjustVariant(
	logRepo repository.InventoryLogRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	input AdjustInput,
	now time.Time,
) (*entity.InventoryLogEntry, error) {
	variant, err := variantRepo.GetForUpdate(input.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != input.ProductID {
		return nil, domain.ErrNotFound
	}

	newQty := variant.StockQuantity + input.ChangeAmount
	if newQty < 0 {
		return nil, domain.ErrInsufficientStock
	}
	if err := variantRepo.UpdateStock(input.VariantID, newQty); err != nil {
		return nil, err
	}

	total, err := variantRepo.SumStockByProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(input.ProductID, total); err != nil {
		return nil, err
	}

	variantID := input.VariantID
	entry := &entity.InventoryLogEntry{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		VariantID:    &variantID,
		ChangeAmount: input.ChangeAmount,
		FinalStock:   newQty,
		Reason:       input.Reason,
		Note:         input.Note,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if err := logRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrProductHasVariants)
}
