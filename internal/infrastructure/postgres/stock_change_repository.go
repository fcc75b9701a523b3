package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockChangeRepository = (*StockChangeRepo)(nil)

// StockChangeRepo implementación del historial de cambios de stock (append-only).
type StockChangeRepo struct {
	q Querier
}

// NewStockChangeRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewStockChangeRepository(q Querier) *StockChangeRepo {
	return &StockChangeRepo{q: q}
}

// Append registra un cambio de stock y asigna el ID generado. Nunca se actualiza ni borra.
func (r *StockChangeRepo) Append(change *entity.StockChange) error {
	query := `
		INSERT INTO stock_changes (product_id, old_quantity, new_quantity, updated_by, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		change.ProductID, change.OldQuantity, change.NewQuantity,
		change.UpdatedBy, change.Kind, change.CreatedAt,
	).Scan(&change.ID)
	if err != nil {
		return fmt.Errorf("insert stock change: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto, más reciente primero.
func (r *StockChangeRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockChange, error) {
	query := `
		SELECT id, product_id, old_quantity, new_quantity, updated_by, kind, created_at
		FROM stock_changes WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockChange
	for rows.Next() {
		var c entity.StockChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.OldQuantity, &c.NewQuantity,
			&c.UpdatedBy, &c.Kind, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
