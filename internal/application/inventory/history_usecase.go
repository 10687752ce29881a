package inventory

import (
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el log de auditoría de inventario.
type HistoryUseCase struct {
	logRepo repository.InventoryLogRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(logRepo repository.InventoryLogRepository) *HistoryUseCase {
	return &HistoryUseCase{logRepo: logRepo}
}

// ListByProduct lista las entradas de un producto en un rango de fechas.
func (uc *HistoryUseCase) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error) {
	return uc.logRepo.ListByProduct(productID, from, to, clampLimit(limit), clampOffset(offset))
}

// List lista las entradas globales en un rango de fechas.
func (uc *HistoryUseCase) List(from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error) {
	return uc.logRepo.List(from, to, clampLimit(limit), clampOffset(offset))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
