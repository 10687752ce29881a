package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CartLineRepository = (*CartLineRepo)(nil)

// CartLineRepo persistencia del carrito de usuarios autenticados.
// La fusión por identidad (producto + selección de variante) la decide la
// capa de aplicación; aquí solo se persisten líneas.
type CartLineRepo struct {
	q Querier
}

func NewCartLineRepository(q Querier) *CartLineRepo {
	return &CartLineRepo{q: q}
}

func (r *CartLineRepo) ListByUser(userID string) ([]entity.CartLine, error) {
	query := `
		SELECT id, product_id, quantity, variant_selection
		FROM cart_lines WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	return scanCartLines(rows)
}

func (r *CartLineRepo) Insert(userID string, line entity.CartLine) error {
	query := `
		INSERT INTO cart_lines (id, user_id, product_id, quantity, variant_selection, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, userID, line.ProductID, line.Quantity, line.VariantSelection,
	)
	if err != nil {
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

func (r *CartLineRepo) UpdateQuantity(lineID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cart_lines SET quantity = $2, updated_at = now() WHERE id = $1`,
		lineID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return nil
}

// UpdateQuantityByProduct fija la cantidad en todas las líneas del producto.
func (r *CartLineRepo) UpdateQuantityByProduct(userID, productID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cart_lines SET quantity = $3, updated_at = now() WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart lines by product: %w", err)
	}
	return nil
}

func (r *CartLineRepo) DeleteByProduct(userID, productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete cart lines by product: %w", err)
	}
	return nil
}

func (r *CartLineRepo) DeleteByUser(userID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	return nil
}

func scanCartLines(rows pgx.Rows) ([]entity.CartLine, error) {
	var list []entity.CartLine
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.VariantSelection); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
