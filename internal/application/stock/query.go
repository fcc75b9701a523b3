package stock

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral por defecto para considerar stock bajo.
const DefaultLowStockThreshold = 10

// QueryUseCase consultas de solo lectura sobre el stock (listados y estadísticas).
type QueryUseCase struct {
	statsRepo repository.StatsRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(statsRepo repository.StatsRepository) *QueryUseCase {
	return &QueryUseCase{statsRepo: statsRepo}
}

// List lista el stock de productos activos con datos del producto.
func (uc *QueryUseCase) List(ctx context.Context, limit, offset int) ([]dto.StockWithProductView, error) {
	list, err := uc.statsRepo.ListStock(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toStockViews(list), nil
}

// LowStock lista productos activos con cantidad igual o menor al umbral.
// Un umbral <= 0 usa el valor por defecto.
func (uc *QueryUseCase) LowStock(ctx context.Context, threshold int64) ([]dto.StockWithProductView, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	list, err := uc.statsRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toStockViews(list), nil
}

// Statistics estadísticas globales de stock sobre productos activos.
func (uc *QueryUseCase) Statistics(ctx context.Context) (*dto.StockStatsResponse, error) {
	stats, err := uc.statsRepo.StockStats(ctx, DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &dto.StockStatsResponse{
		TotalProducts:   stats.TotalProducts,
		TotalQuantity:   stats.TotalQuantity,
		AverageQuantity: stats.AverageQuantity,
		LowStockCount:   stats.LowStockCount,
		OutOfStockCount: stats.OutOfStockCount,
	}, nil
}

func toStockViews(list []*repository.StockWithProduct) []dto.StockWithProductView {
	out := make([]dto.StockWithProductView, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockWithProductView{
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Category:    s.Category,
			Price:       s.Price,
			Quantity:    s.Quantity,
			UpdatedBy:   s.UpdatedBy,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out
}
