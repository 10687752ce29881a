package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, sku, attributes, price_delta, stock_quantity, created_at, updated_at`

// VariantRepo implementación del puerto VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

func (r *VariantRepo) Create(variant *entity.Variant) error {
	query := `
		INSERT INTO product_variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		variant.ID, variant.ProductID, variant.SKU, variant.Attributes,
		variant.PriceDelta, variant.StockQuantity, variant.CreatedAt, variant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) scanOne(row pgx.Row, op string) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Attributes, &v.PriceDelta,
		&v.StockQuantity, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

func (r *VariantRepo) GetByID(id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get variant")
}

// GetForUpdate bloquea la fila de la variante. Llamar dentro de una tx.
func (r *VariantRepo) GetForUpdate(id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "lock variant")
}

func (r *VariantRepo) ListByProduct(productID string) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Attributes, &v.PriceDelta,
			&v.StockQuantity, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

func (r *VariantRepo) Update(variant *entity.Variant) error {
	query := `
		UPDATE product_variants
		SET sku = $2, attributes = $3, price_delta = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		variant.ID, variant.SKU, variant.Attributes, variant.PriceDelta, variant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	return nil
}

// UpdateStock fija el stock de la variante (motor de inventario).
func (r *VariantRepo) UpdateStock(variantID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE product_variants SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		variantID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update variant stock: %w", err)
	}
	return nil
}

// SumStockByProduct suma el stock de todas las variantes del producto.
func (r *VariantRepo) SumStockByProduct(productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(stock_quantity), 0) FROM product_variants WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum variant stock: %w", err)
	}
	return total, nil
}

// CountByProduct cuenta las variantes del producto.
func (r *VariantRepo) CountByProduct(productID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM product_variants WHERE product_id = $1`,
		productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return count, nil
}

func (r *VariantRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}
