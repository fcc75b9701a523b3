package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type ledgerStore struct {
	products map[int64]*entity.Product
	stock    map[int64]*entity.StockRecord
	changes  []*entity.StockChange
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		products: make(map[int64]*entity.Product),
		stock:    make(map[int64]*entity.StockRecord),
	}
}

func (s *ledgerStore) addProduct(id int64, name string, active bool) {
	s.products[id] = &entity.Product{ID: id, Name: name, IsActive: active}
}

func (s *ledgerStore) setStock(productID, quantity int64) {
	s.stock[productID] = &entity.StockRecord{ProductID: productID, Quantity: quantity}
}

type ledgerProductRepo struct{ s *ledgerStore }

func (r *ledgerProductRepo) Create(*entity.Product) error { return nil }
func (r *ledgerProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *ledgerProductRepo) Update(*entity.Product) error { return nil }
func (r *ledgerProductRepo) List(int, int, bool) ([]*entity.Product, error) {
	return nil, nil
}
func (r *ledgerProductRepo) ListByCategory(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *ledgerProductRepo) Search(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *ledgerProductRepo) Deactivate(int64) error { return nil }

type ledgerStockRepo struct{ s *ledgerStore }

func (r *ledgerStockRepo) Get(productID int64) (*entity.StockRecord, error) {
	if rec, ok := r.s.stock[productID]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.StockRecord{ProductID: productID}, nil
}

func (r *ledgerStockRepo) GetForUpdate(productID int64) (*entity.StockRecord, error) {
	return r.Get(productID)
}

func (r *ledgerStockRepo) Upsert(rec *entity.StockRecord) error {
	cp := *rec
	r.s.stock[rec.ProductID] = &cp
	return nil
}

type ledgerChangeRepo struct{ s *ledgerStore }

func (r *ledgerChangeRepo) Append(c *entity.StockChange) error {
	c.ID = int64(len(r.s.changes) + 1)
	cp := *c
	r.s.changes = append(r.s.changes, &cp)
	return nil
}

func (r *ledgerChangeRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockChange, error) {
	var out []*entity.StockChange
	for i := len(r.s.changes) - 1; i >= 0; i-- {
		if r.s.changes[i].ProductID == productID {
			out = append(out, r.s.changes[i])
		}
	}
	return out, nil
}

type ledgerTxRunner struct{ s *ledgerStore }

func (r *ledgerTxRunner) RunStock(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(&ledgerStockRepo{r.s}, &ledgerChangeRepo{r.s}, &ledgerProductRepo{r.s})
}

const testActor = int64(3)

func newLedger(store *ledgerStore) *stock.LedgerUseCase {
	return stock.NewLedgerUseCase(
		&ledgerTxRunner{store},
		&ledgerStockRepo{store},
		&ledgerChangeRepo{store},
		&ledgerProductRepo{store},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_RegistraCantidadYCambio(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Café molido 500g", true)
	uc := newLedger(store)

	view, err := uc.SetQuantity(context.Background(), dto.SetStockRequest{
		ProductID: 1,
		Quantity:  25,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, int64(25), view.Quantity)
	assert.Equal(t, testActor, view.UpdatedBy)

	require.Len(t, store.changes, 1, "cada ajuste deja una entrada en el historial")
	cambio := store.changes[0]
	assert.Equal(t, int64(0), cambio.OldQuantity, "producto sin registro previo parte de 0")
	assert.Equal(t, int64(25), cambio.NewQuantity)
	assert.Equal(t, entity.ChangeKindManual, cambio.Kind, "sin kind explícito aplica manual")
}

func TestSetQuantity_ConservaOldQuantity(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Café molido 500g", true)
	store.setStock(1, 8)
	uc := newLedger(store)

	_, err := uc.SetQuantity(context.Background(), dto.SetStockRequest{
		ProductID: 1,
		Quantity:  30,
		Kind:      entity.ChangeKindMorning,
	}, testActor)
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, int64(8), store.changes[0].OldQuantity)
	assert.Equal(t, int64(30), store.changes[0].NewQuantity)
	assert.Equal(t, entity.ChangeKindMorning, store.changes[0].Kind)
}

func TestSetQuantity_Validacion(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Café molido 500g", true)
	uc := newLedger(store)
	ctx := context.Background()

	_, err := uc.SetQuantity(ctx, dto.SetStockRequest{ProductID: 0, Quantity: 5}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto inválido")

	_, err = uc.SetQuantity(ctx, dto.SetStockRequest{ProductID: 1, Quantity: -1}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = uc.SetQuantity(ctx, dto.SetStockRequest{ProductID: 1, Quantity: 5, Kind: "inventario"}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "kind desconocido")

	// Los kinds de pedido son internos: solo los escriben ReserveInTx/ReleaseInTx
	_, err = uc.SetQuantity(ctx, dto.SetStockRequest{ProductID: 1, Quantity: 5, Kind: entity.ChangeKindOrder}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "kind order no es ajustable a mano")

	assert.Empty(t, store.changes, "ninguna validación fallida deja historial")
}

func TestSetQuantity_ProductoInexistente(t *testing.T) {
	store := newLedgerStore()
	uc := newLedger(store)

	_, err := uc.SetQuantity(context.Background(), dto.SetStockRequest{
		ProductID: 42,
		Quantity:  10,
	}, testActor)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, store.stock, "no se crea registro de stock para un producto inexistente")
	assert.Empty(t, store.changes)
}

// ──────────────────────────────────────────────────────────────────────────────
// BulkSetQuantity
// ──────────────────────────────────────────────────────────────────────────────

// El conteo masivo se aplica en orden y se detiene en el primer error,
// devolviendo lo ya aplicado.
func TestBulkSetQuantity_SeDetieneEnElPrimerError(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Harina de maíz 1kg", true)
	store.addProduct(3, "Arroz blanco 1kg", true)
	uc := newLedger(store)

	results, err := uc.BulkSetQuantity(context.Background(), dto.BulkSetStockRequest{
		Kind: entity.ChangeKindEvening,
		Updates: []dto.SetStockRequest{
			{ProductID: 1, Quantity: 12},
			{ProductID: 2, Quantity: 5}, // no existe
			{ProductID: 3, Quantity: 9}, // no debe procesarse
		},
	}, testActor)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	require.Len(t, results, 1, "solo el primer registro quedó aplicado")
	assert.Equal(t, int64(12), results[0].Quantity)
	assert.Equal(t, int64(12), store.stock[1].Quantity, "lo aplicado antes del error persiste")
	assert.Nil(t, store.stock[3], "lo posterior al error no se toca")
}

func TestBulkSetQuantity_KindDelLoteYPorItem(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Harina de maíz 1kg", true)
	store.addProduct(2, "Arroz blanco 1kg", true)
	uc := newLedger(store)

	_, err := uc.BulkSetQuantity(context.Background(), dto.BulkSetStockRequest{
		Kind: entity.ChangeKindMorning,
		Updates: []dto.SetStockRequest{
			{ProductID: 1, Quantity: 12},
			{ProductID: 2, Quantity: 7, Kind: entity.ChangeKindManual},
		},
	}, testActor)
	require.NoError(t, err)

	require.Len(t, store.changes, 2)
	assert.Equal(t, entity.ChangeKindMorning, store.changes[0].Kind, "sin kind por ítem hereda el del lote")
	assert.Equal(t, entity.ChangeKindManual, store.changes[1].Kind, "el kind por ítem tiene prioridad")
}

func TestBulkSetQuantity_LoteVacio(t *testing.T) {
	uc := newLedger(newLedgerStore())

	_, err := uc.BulkSetQuantity(context.Background(), dto.BulkSetStockRequest{}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetQuantity_SinRegistroEsCero(t *testing.T) {
	uc := newLedger(newLedgerStore())

	qty, err := uc.GetQuantity(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "producto sin registro reporta 0, no error")
}

func TestCheckAvailability_PorItem(t *testing.T) {
	store := newLedgerStore()
	store.setStock(1, 10)
	store.setStock(2, 3)
	uc := newLedger(store)

	views, err := uc.CheckAvailability(context.Background(), []dto.AvailabilityItemRequest{
		{ProductID: 1, Quantity: 4},
		{ProductID: 2, Quantity: 5},
		{ProductID: 3, Quantity: 1}, // sin registro
	})
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.True(t, views[0].Sufficient)
	assert.Equal(t, int64(10), views[0].Available)

	assert.False(t, views[1].Sufficient, "3 disponibles no cubren 5 pedidos")
	assert.Equal(t, int64(3), views[1].Available)

	assert.False(t, views[2].Sufficient)
	assert.Equal(t, int64(0), views[2].Available, "sin registro cuenta como 0")

	assert.Equal(t, int64(10), store.stock[1].Quantity, "la consulta no reserva nada")
}

func TestCheckAvailability_Validacion(t *testing.T) {
	uc := newLedger(newLedgerStore())
	ctx := context.Background()

	_, err := uc.CheckAvailability(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "lista vacía")

	_, err = uc.CheckAvailability(ctx, []dto.AvailabilityItemRequest{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

func TestHistory_DelMasRecienteAlMasAntiguo(t *testing.T) {
	store := newLedgerStore()
	store.addProduct(1, "Café molido 500g", true)
	uc := newLedger(store)
	ctx := context.Background()

	for _, qty := range []int64{10, 15, 7} {
		_, err := uc.SetQuantity(ctx, dto.SetStockRequest{ProductID: 1, Quantity: qty}, testActor)
		require.NoError(t, err)
	}

	history, err := uc.History(ctx, 1, 50, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, int64(7), history[0].NewQuantity, "el cambio más reciente va primero")
	assert.Equal(t, int64(15), history[0].OldQuantity)
	assert.Equal(t, int64(10), history[2].NewQuantity)
	assert.Equal(t, int64(0), history[2].OldQuantity)
}
