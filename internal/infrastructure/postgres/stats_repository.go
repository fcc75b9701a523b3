package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura (listados con joins y agregaciones).
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de consultas. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

const orderWithUserColumns = `
	o.id, o.order_number, o.user_id, o.delivery_date, o.delivery_slot,
	o.status, o.total_amount, o.created_at, o.updated_at, u.name, u.email`

// ListOrders lista todos los pedidos con datos del usuario, más reciente primero.
func (r *StatsRepo) ListOrders(ctx context.Context, limit, offset int) ([]*repository.OrderWithUser, error) {
	query := `
		SELECT ` + orderWithUserColumns + `
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return scanOrdersWithUser(rows)
}

// ListOrdersByStatus lista pedidos de un estado con datos del usuario.
func (r *StatsRepo) ListOrdersByStatus(ctx context.Context, status string, limit, offset int) ([]*repository.OrderWithUser, error) {
	query := `
		SELECT ` + orderWithUserColumns + `
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.status = $1
		ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	defer rows.Close()
	return scanOrdersWithUser(rows)
}

// OrderStats agrega conteos y montos por estado. El ingreso total excluye cancelados.
func (r *StatsRepo) OrderStats(ctx context.Context) (*repository.OrderStats, error) {
	stats := &repository.OrderStats{}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders`,
	).Scan(&stats.TotalOrders, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("order stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s repository.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan status stat: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, s)
	}
	return stats, rows.Err()
}

const stockWithProductColumns = `
	s.product_id, p.name, p.category, p.price, s.quantity, s.updated_by, s.updated_at`

// ListStock lista el stock de productos activos con datos del producto.
func (r *StatsRepo) ListStock(ctx context.Context, limit, offset int) ([]*repository.StockWithProduct, error) {
	query := `
		SELECT ` + stockWithProductColumns + `
		FROM stock s JOIN products p ON p.id = s.product_id
		WHERE p.is_active = true
		ORDER BY p.category, p.name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	return scanStockWithProduct(rows)
}

// ListLowStock lista productos activos con cantidad igual o menor al umbral.
func (r *StatsRepo) ListLowStock(ctx context.Context, threshold int64) ([]*repository.StockWithProduct, error) {
	query := `
		SELECT ` + stockWithProductColumns + `
		FROM stock s JOIN products p ON p.id = s.product_id
		WHERE p.is_active = true AND s.quantity <= $1
		ORDER BY s.quantity, p.name`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanStockWithProduct(rows)
}

// StockStats agrega totales de stock sobre productos activos. Los productos sin
// fila de stock cuentan como cantidad 0.
func (r *StatsRepo) StockStats(ctx context.Context, lowStockThreshold int64) (*repository.StockStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(COALESCE(s.quantity, 0)), 0),
			COALESCE(AVG(COALESCE(s.quantity, 0)), 0),
			COUNT(*) FILTER (WHERE COALESCE(s.quantity, 0) <= $1 AND COALESCE(s.quantity, 0) > 0),
			COUNT(*) FILTER (WHERE COALESCE(s.quantity, 0) = 0)
		FROM products p LEFT JOIN stock s ON s.product_id = p.id
		WHERE p.is_active = true`
	stats := &repository.StockStats{}
	err := r.q.QueryRow(ctx, query, lowStockThreshold).Scan(
		&stats.TotalProducts, &stats.TotalQuantity, &stats.AverageQuantity,
		&stats.LowStockCount, &stats.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("stock stats: %w", err)
	}
	return stats, nil
}

func scanOrdersWithUser(rows pgx.Rows) ([]*repository.OrderWithUser, error) {
	var list []*repository.OrderWithUser
	for rows.Next() {
		var o repository.OrderWithUser
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.DeliveryDate, &o.DeliverySlot,
			&o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt, &o.UserName, &o.UserEmail); err != nil {
			return nil, fmt.Errorf("scan order with user: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

func scanStockWithProduct(rows pgx.Rows) ([]*repository.StockWithProduct, error) {
	var list []*repository.StockWithProduct
	for rows.Next() {
		var s repository.StockWithProduct
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.Category, &s.Price,
			&s.Quantity, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock with product: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
