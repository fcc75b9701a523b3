package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/delivery"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// DeliveryDateLayout formato de fecha de entrega en la API.
const DeliveryDateLayout = "2006-01-02"

// maxNumberAttempts reintentos de creación cuando el order_number choca con el
// constraint único (el sufijo aleatorio hace la colisión improbable, no imposible).
const maxNumberAttempts = 3

// LifecycleUseCase orquesta el ciclo de vida del pedido: creación
// (validar → valorar → reservar stock → persistir), cancelación (liberar
// reserva → transicionar) y cambios de estado.
type LifecycleUseCase struct {
	txRunner  TxRunner
	ledger    StockLedger
	policy    *delivery.Policy
	orderRepo repository.OrderRepository

	// nowFn permite fijar el reloj en tests; por defecto time.Now.
	nowFn func() time.Time
}

// NewLifecycleUseCase construye el caso de uso. orderRepo va atado al pool y se
// usa solo para lecturas; las mutaciones usan los repos atados a la tx.
func NewLifecycleUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	policy *delivery.Policy,
	orderRepo repository.OrderRepository,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		policy:    policy,
		orderRepo: orderRepo,
		nowFn:     time.Now,
	}
}

// WithClock fija el reloj del caso de uso (tests).
func (uc *LifecycleUseCase) WithClock(nowFn func() time.Time) *LifecycleUseCase {
	uc.nowFn = nowFn
	return uc
}

// Create crea un pedido completo:
//  1. resuelve/valida la fecha de entrega contra la política de corte;
//  2. valora cada línea al precio vigente (snapshot);
//  3. reserva stock para todas las líneas (todo-o-nada);
//  4. genera el número de pedido y persiste cabecera + líneas.
//
// Los pasos 2-4 corren en una sola transacción por intento; cualquier fallo
// antes del commit no deja estado parcial: ni pedido ni descuento de stock.
func (uc *LifecycleUseCase) Create(ctx context.Context, userID int64, in dto.CreateOrderRequest) (*dto.OrderView, error) {
	if userID <= 0 || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidSlot(in.DeliverySlot) {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.nowFn()

	var deliveryDate time.Time
	if in.DeliveryDate == "" {
		deliveryDate = uc.policy.NextAvailableDate(now)
	} else {
		parsed, err := time.ParseInLocation(DeliveryDateLayout, in.DeliveryDate, uc.policy.Location())
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if !uc.policy.IsValidDeliveryDate(parsed, now) {
			return nil, &domain.PolicyError{
				Reason: fmt.Sprintf("la fecha %s ya no es entregable; la próxima fecha disponible es %s",
					in.DeliveryDate, uc.policy.NextAvailableDate(now).Format(DeliveryDateLayout)),
			}
		}
		deliveryDate = parsed
	}

	// Después del corte el pedido se entrega un día más tarde; se exige
	// confirmación explícita del caller.
	if uc.policy.IsAfterCutoff(now) && !in.ForceAfterCutoff {
		return nil, &domain.PolicyError{
			Reason: "pedido realizado después de la hora de corte: la entrega se corre un día; confirme con force_after_cutoff",
		}
	}

	// Ante colisión de order_number la transacción completa se repite con un
	// número nuevo: un INSERT fallido (23505) aborta la tx en Postgres, así que
	// el reintento necesita una tx fresca. El rollback del intento anterior ya
	// deshizo reserva y líneas.
	var attemptErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		out, err := uc.createOnce(ctx, userID, in, deliveryDate, now)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		attemptErr = err
	}
	return nil, attemptErr
}

// createOnce ejecuta un intento de creación en una sola transacción.
func (uc *LifecycleUseCase) createOnce(
	ctx context.Context,
	userID int64,
	in dto.CreateOrderRequest,
	deliveryDate, now time.Time,
) (*dto.OrderView, error) {
	var out *dto.OrderView
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		productRepo repository.ProductRepository,
	) error {
		// Valorar líneas al precio vigente (snapshot en cada línea)
		lines, total, err := priceOrder(productRepo, in.Items)
		if err != nil {
			return err
		}

		// Reservar stock para todas las líneas; si alguna no alcanza,
		// InsufficientStockError y rollback (sin pedido ni descuento)
		items := make([]stock.Item, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, stock.Item{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		if err := uc.ledger.ReserveInTx(stockRepo, changeRepo, items, userID, now); err != nil {
			return err
		}

		order := &entity.Order{
			OrderNumber:  generateOrderNumber(now),
			UserID:       userID,
			DeliveryDate: deliveryDate,
			DeliverySlot: in.DeliverySlot,
			Status:       entity.OrderStatusPending,
			TotalAmount:  total,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		view := &dto.OrderView{
			ID:           order.ID,
			OrderNumber:  order.OrderNumber,
			UserID:       order.UserID,
			DeliveryDate: order.DeliveryDate.Format(DeliveryDateLayout),
			DeliverySlot: order.DeliverySlot,
			Status:       order.Status,
			TotalAmount:  order.TotalAmount,
			CreatedAt:    order.CreatedAt,
			UpdatedAt:    order.UpdatedAt,
		}
		for _, line := range lines {
			ol := &entity.OrderLine{
				OrderID:   order.ID,
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
			}
			if err := orderRepo.CreateLine(ol); err != nil {
				return err
			}
			view.Lines = append(view.Lines, dto.OrderLineView{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
			})
		}
		out = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel cancela un pedido: libera el stock reservado por sus líneas y
// transiciona a cancelled, todo en una transacción. Un pedido entregado no se
// puede cancelar. Cancelar un pedido ya cancelado es un no-op que devuelve el
// estado actual (idempotente).
func (uc *LifecycleUseCase) Cancel(ctx context.Context, orderID int64) (*dto.OrderView, error) {
	if orderID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderView
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		_ repository.ProductRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status == entity.OrderStatusDelivered {
			return &domain.InvalidTransitionError{From: order.Status, To: entity.OrderStatusCancelled}
		}

		lines, err := orderRepo.GetLines(orderID)
		if err != nil {
			return err
		}

		if order.Status != entity.OrderStatusCancelled {
			items := make([]stock.Item, 0, len(lines))
			for _, l := range lines {
				items = append(items, stock.Item{ProductID: l.ProductID, Quantity: l.Quantity})
			}
			now := uc.nowFn()
			if err := uc.ledger.ReleaseInTx(stockRepo, changeRepo, items, order.UserID, now); err != nil {
				return err
			}
			if err := orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled, now); err != nil {
				return err
			}
			order.Status = entity.OrderStatusCancelled
			order.UpdatedAt = now
		}

		out = buildOrderView(order, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus aplica la tabla de transiciones. No toca stock: la cancelación
// (que libera la reserva) solo es posible vía Cancel, por eso cancelled se
// rechaza aquí como destino.
func (uc *LifecycleUseCase) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*dto.OrderView, error) {
	if orderID <= 0 || !entity.IsValidOrderStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	if newStatus == entity.OrderStatusCancelled {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderView
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.StockRepository,
		_ repository.StockChangeRepository,
		_ repository.ProductRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !entity.CanTransition(order.Status, newStatus) {
			return &domain.InvalidTransitionError{From: order.Status, To: newStatus}
		}
		now := uc.nowFn()
		if err := orderRepo.UpdateStatus(orderID, newStatus, now); err != nil {
			return err
		}
		order.Status = newStatus
		order.UpdatedAt = now

		lines, err := orderRepo.GetLines(orderID)
		if err != nil {
			return err
		}
		out = buildOrderView(order, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// generateOrderNumber genera el identificador externo legible:
// EA-<YYYYMMDDHHMMSS>-<4 caracteres aleatorios>. La unicidad real la garantiza
// el constraint único de la BD más el reintento de Create.
func generateOrderNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("EA-%s-%s", now.Format("20060102150405"), random[:4])
}

func buildOrderView(order *entity.Order, lines []*repository.OrderLineDetail) *dto.OrderView {
	view := &dto.OrderView{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		UserID:       order.UserID,
		DeliveryDate: order.DeliveryDate.Format(DeliveryDateLayout),
		DeliverySlot: order.DeliverySlot,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, dto.OrderLineView{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return view
}
