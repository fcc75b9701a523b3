package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderWithUser cabecera de pedido con datos del usuario (listados administrativos).
type OrderWithUser struct {
	entity.Order
	UserName  string
	UserEmail string
}

// StatusStat conteo y monto acumulado por estado de pedido.
type StatusStat struct {
	Status      string
	Count       int64
	TotalAmount decimal.Decimal
}

// OrderStats estadísticas globales de pedidos.
// TotalRevenue excluye pedidos cancelados.
type OrderStats struct {
	TotalOrders  int64
	TotalRevenue decimal.Decimal
	ByStatus     []StatusStat
}

// StockWithProduct registro de stock con datos del producto (lectura).
type StockWithProduct struct {
	ProductID   int64
	ProductName string
	Category    string
	Price       decimal.Decimal
	Quantity    int64
	UpdatedBy   int64
	UpdatedAt   time.Time
}

// StockStats estadísticas globales de stock (solo productos activos).
type StockStats struct {
	TotalProducts   int64
	TotalQuantity   int64
	AverageQuantity decimal.Decimal
	LowStockCount   int64
	OutOfStockCount int64
}

// StatsRepository consultas de solo lectura para el lado de consulta
// (listados con joins y agregaciones). Sin invariantes más allá del filtrado correcto.
type StatsRepository interface {
	ListOrders(ctx context.Context, limit, offset int) ([]*OrderWithUser, error)
	ListOrdersByStatus(ctx context.Context, status string, limit, offset int) ([]*OrderWithUser, error)
	OrderStats(ctx context.Context) (*OrderStats, error)
	ListStock(ctx context.Context, limit, offset int) ([]*StockWithProduct, error)
	ListLowStock(ctx context.Context, threshold int64) ([]*StockWithProduct, error)
	StockStats(ctx context.Context, lowStockThreshold int64) (*StockStats, error)
}
