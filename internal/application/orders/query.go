package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// QueryUseCase lado de consulta de pedidos y stock: listados paginados y
// agregaciones. Solo lectura.
type QueryUseCase struct {
	orderRepo repository.OrderRepository
	statsRepo repository.StatsRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(orderRepo repository.OrderRepository, statsRepo repository.StatsRepository) *QueryUseCase {
	return &QueryUseCase{orderRepo: orderRepo, statsRepo: statsRepo}
}

// GetByID devuelve la vista completa de un pedido con sus líneas.
func (uc *QueryUseCase) GetByID(ctx context.Context, orderID int64) (*dto.OrderView, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	lines, err := uc.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, err
	}
	return buildOrderView(order, lines), nil
}

// GetByNumber devuelve un pedido por su número externo (EA-...).
func (uc *QueryUseCase) GetByNumber(ctx context.Context, number string) (*dto.OrderView, error) {
	if number == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	lines, err := uc.orderRepo.GetLines(order.ID)
	if err != nil {
		return nil, err
	}
	return buildOrderView(order, lines), nil
}

// ListByUser devuelve los pedidos de un usuario, del más reciente al más antiguo.
func (uc *QueryUseCase) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*dto.OrderView, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	headers, err := uc.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderView, 0, len(headers))
	for _, order := range headers {
		lines, err := uc.orderRepo.GetLines(order.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, buildOrderView(order, lines))
	}
	return out, nil
}

// ListAll devuelve todos los pedidos con datos del usuario (vista administrativa).
func (uc *QueryUseCase) ListAll(ctx context.Context, limit, offset int) ([]dto.OrderSummary, error) {
	rows, err := uc.statsRepo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderSummaries(rows), nil
}

// ListByStatus devuelve los pedidos en un estado dado, con datos del usuario.
func (uc *QueryUseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]dto.OrderSummary, error) {
	if !entity.IsValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.statsRepo.ListOrdersByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderSummaries(rows), nil
}

// Statistics devuelve conteos y montos por estado; los cancelados no suman ingreso.
func (uc *QueryUseCase) Statistics(ctx context.Context) (*dto.OrderStatsResponse, error) {
	stats, err := uc.statsRepo.OrderStats(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderStatsResponse{
		TotalOrders:  stats.TotalOrders,
		TotalRevenue: stats.TotalRevenue,
		ByStatus:     make([]dto.StatusStatDTO, 0, len(stats.ByStatus)),
	}
	for _, s := range stats.ByStatus {
		resp.ByStatus = append(resp.ByStatus, dto.StatusStatDTO{
			Status:      s.Status,
			Count:       s.Count,
			TotalAmount: s.TotalAmount,
		})
	}
	return resp, nil
}

// DeliverySlots devuelve las franjas de entrega con su rango horario.
// En un sistema real la disponibilidad verificaría capacidad por fecha.
func (uc *QueryUseCase) DeliverySlots() []dto.DeliverySlotView {
	slots := []string{entity.SlotMorning, entity.SlotAfternoon, entity.SlotEvening}
	out := make([]dto.DeliverySlotView, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.DeliverySlotView{
			Slot:      slot,
			Available: true,
			TimeRange: entity.SlotTimeRanges[slot],
		})
	}
	return out
}

func toOrderSummaries(rows []*repository.OrderWithUser) []dto.OrderSummary {
	out := make([]dto.OrderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OrderSummary{
			ID:           r.ID,
			OrderNumber:  r.OrderNumber,
			UserID:       r.UserID,
			UserName:     r.UserName,
			UserEmail:    r.UserEmail,
			DeliveryDate: r.DeliveryDate.Format(DeliveryDateLayout),
			DeliverySlot: r.DeliverySlot,
			Status:       r.Status,
			TotalAmount:  r.TotalAmount,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out
}
