package stock

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Item cantidad solicitada o liberada de un producto.
type Item struct {
	ProductID int64
	Quantity  int64
}

// LedgerUseCase es el libro de stock: cantidad actual por producto más un
// historial append-only de cambios. Toda mutación pasa por una transacción
// con bloqueo de fila (SELECT FOR UPDATE) y deja una entrada en el historial.
type LedgerUseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRepository
	changeRepo  repository.StockChangeRepository
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso. Los repos recibidos van atados al
// pool (solo lectura); las mutaciones usan los repos atados a la tx de txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	productRepo repository.ProductRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		changeRepo:  changeRepo,
		productRepo: productRepo,
	}
}

// GetQuantity devuelve la cantidad registrada de un producto; 0 si no hay registro.
func (uc *LedgerUseCase) GetQuantity(ctx context.Context, productID int64) (int64, error) {
	rec, err := uc.stockRepo.Get(productID)
	if err != nil {
		return 0, err
	}
	return rec.Quantity, nil
}

// SetQuantity fija la cantidad absoluta de un producto (restock manual o conteo
// programado) y registra el cambio old→new. Falla si la cantidad es negativa,
// el tipo de cambio no es uno externo válido o el producto no existe.
func (uc *LedgerUseCase) SetQuantity(ctx context.Context, in dto.SetStockRequest, actor int64) (*dto.StockView, error) {
	if in.ProductID <= 0 || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	kind := in.Kind
	if kind == "" {
		kind = entity.ChangeKindManual
	}
	if !entity.IsManualChangeKind(kind) {
		return nil, domain.ErrInvalidInput
	}

	var out *dto.StockView
	err := uc.txRunner.RunStock(ctx, func(
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		// Bloquea la fila para que el old_quantity del historial sea el real
		rec, err := stockRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		now := time.Now()
		old := rec.Quantity
		rec.Quantity = in.Quantity
		rec.UpdatedBy = actor
		rec.UpdatedAt = now
		if err := stockRepo.Upsert(rec); err != nil {
			return err
		}
		if err := changeRepo.Append(&entity.StockChange{
			ProductID:   in.ProductID,
			OldQuantity: old,
			NewQuantity: in.Quantity,
			UpdatedBy:   actor,
			Kind:        kind,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		out = toStockView(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkSetQuantity aplica una lista de conteos (actualización programada de la
// mañana/tarde). Cada producto se procesa en su propia transacción; se devuelve
// el primer error encontrado junto con los registros ya aplicados.
func (uc *LedgerUseCase) BulkSetQuantity(ctx context.Context, in dto.BulkSetStockRequest, actor int64) ([]*dto.StockView, error) {
	if len(in.Updates) == 0 {
		return nil, domain.ErrInvalidInput
	}
	results := make([]*dto.StockView, 0, len(in.Updates))
	for _, upd := range in.Updates {
		if upd.Kind == "" {
			upd.Kind = in.Kind
		}
		view, err := uc.SetQuantity(ctx, upd, actor)
		if err != nil {
			return results, err
		}
		results = append(results, view)
	}
	return results, nil
}

// CheckAvailability informa, por ítem, cuánto hay y si alcanza. Solo lectura;
// no reserva nada.
func (uc *LedgerUseCase) CheckAvailability(ctx context.Context, items []dto.AvailabilityItemRequest) ([]dto.AvailabilityItemView, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]dto.AvailabilityItemView, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		rec, err := uc.stockRepo.Get(it.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.AvailabilityItemView{
			ProductID:  it.ProductID,
			Requested:  it.Quantity,
			Available:  rec.Quantity,
			Sufficient: rec.Quantity >= it.Quantity,
		})
	}
	return out, nil
}

// History devuelve el historial de cambios de un producto, del más reciente al más antiguo.
func (uc *LedgerUseCase) History(ctx context.Context, productID int64, limit, offset int) ([]dto.StockChangeView, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	changes, err := uc.changeRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockChangeView, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.StockChangeView{
			ID:          c.ID,
			ProductID:   c.ProductID,
			OldQuantity: c.OldQuantity,
			NewQuantity: c.NewQuantity,
			UpdatedBy:   c.UpdatedBy,
			Kind:        c.Kind,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

// ReserveInTx descuenta stock para todos los ítems usando los repositorios del
// caller (misma transacción). Todo-o-nada: primero bloquea y verifica cada fila;
// si algún ítem no alcanza devuelve InsufficientStockError y no descuenta ninguno.
// Los ítems duplicados se consolidan y las filas se bloquean en orden de producto.
func (uc *LedgerUseCase) ReserveInTx(
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	items []Item,
	actor int64,
	now time.Time,
) error {
	merged, err := mergeItems(items)
	if err != nil {
		return err
	}

	// Fase 1: bloquear y verificar todas las filas antes de tocar alguna
	records := make([]*entity.StockRecord, 0, len(merged))
	for _, it := range merged {
		rec, err := stockRepo.GetForUpdate(it.ProductID)
		if err != nil {
			return err
		}
		if rec.Quantity < it.Quantity {
			return &domain.InsufficientStockError{
				ProductID: it.ProductID,
				Requested: it.Quantity,
				Available: rec.Quantity,
			}
		}
		records = append(records, rec)
	}

	// Fase 2: descontar y registrar cada cambio
	for i, it := range merged {
		rec := records[i]
		old := rec.Quantity
		rec.Quantity = old - it.Quantity
		rec.UpdatedBy = actor
		rec.UpdatedAt = now
		if err := stockRepo.Upsert(rec); err != nil {
			return err
		}
		if err := changeRepo.Append(&entity.StockChange{
			ProductID:   it.ProductID,
			OldQuantity: old,
			NewQuantity: rec.Quantity,
			UpdatedBy:   actor,
			Kind:        entity.ChangeKindOrder,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseInTx devuelve al stock las unidades reservadas de un pedido (misma
// transacción del caller). No falla por tope: se asume que las unidades fueron
// descontadas antes por ReserveInTx.
func (uc *LedgerUseCase) ReleaseInTx(
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	items []Item,
	actor int64,
	now time.Time,
) error {
	merged, err := mergeItems(items)
	if err != nil {
		return err
	}
	for _, it := range merged {
		rec, err := stockRepo.GetForUpdate(it.ProductID)
		if err != nil {
			return err
		}
		old := rec.Quantity
		rec.Quantity = old + it.Quantity
		rec.UpdatedBy = actor
		rec.UpdatedAt = now
		if err := stockRepo.Upsert(rec); err != nil {
			return err
		}
		if err := changeRepo.Append(&entity.StockChange{
			ProductID:   it.ProductID,
			OldQuantity: old,
			NewQuantity: rec.Quantity,
			UpdatedBy:   actor,
			Kind:        entity.ChangeKindOrderCancel,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// mergeItems valida las cantidades, consolida ítems del mismo producto y ordena
// por ProductID ascendente (orden de bloqueo estable evita deadlocks entre tx).
func mergeItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	byProduct := make(map[int64]int64, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		byProduct[it.ProductID] += it.Quantity
	}
	merged := make([]Item, 0, len(byProduct))
	for pid, qty := range byProduct {
		merged = append(merged, Item{ProductID: pid, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

func toStockView(rec *entity.StockRecord) *dto.StockView {
	return &dto.StockView{
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		UpdatedBy: rec.UpdatedBy,
		UpdatedAt: rec.UpdatedAt,
	}
}
