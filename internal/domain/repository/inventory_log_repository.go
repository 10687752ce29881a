package repository

import (
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// InventoryLogRepository define el puerto de persistencia para el log de
// auditoría de inventario. Las entradas son inmutables: solo alta y lectura.
type InventoryLogRepository interface {
	Create(entry *entity.InventoryLogEntry) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error)
}
