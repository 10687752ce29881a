package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

const logColumns = `id, product_id, variant_id, change_amount, final_stock, reason, note, created_at, created_by`

// InventoryLogRepo persistencia del log de auditoría de inventario.
// Solo inserción y lectura: las entradas nunca se editan ni se borran.
type InventoryLogRepo struct {
	q Querier
}

func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

func (r *InventoryLogRepo) Create(entry *entity.InventoryLogEntry) error {
	query := `
		INSERT INTO inventory_log (` + logColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.VariantID, entry.ChangeAmount, entry.FinalStock,
		entry.Reason, entry.Note, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto, más reciente primero, con rango de fechas opcional.
func (r *InventoryLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM inventory_log WHERE product_id = $1`
	args := []any{productID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryEntries(query, args)
}

// List historial global (panel de administración).
func (r *InventoryLogRepo) List(from, to *time.Time, limit, offset int) ([]*entity.InventoryLogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM inventory_log WHERE 1=1`
	args := []any{}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryEntries(query, args)
}

func appendDateRange(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return query, args
}

func (r *InventoryLogRepo) queryEntries(query string, args []any) ([]*entity.InventoryLogEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory log: %w", err)
	}
	defer rows.Close()
	return scanLogEntries(rows)
}

func scanLogEntries(rows pgx.Rows) ([]*entity.InventoryLogEntry, error) {
	var list []*entity.InventoryLogEntry
	for rows.Next() {
		var e entity.InventoryLogEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.VariantID, &e.ChangeAmount, &e.FinalStock,
			&e.Reason, &e.Note, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
