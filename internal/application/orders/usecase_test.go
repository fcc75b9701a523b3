package orders_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/delivery"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = int64(7)

// mediodía, bien antes del corte de las 18:00
var beforeCutoff = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// 19:00, después del corte
var afterCutoff = time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)

func newLifecycle(t *testing.T, store *fakeStore, now time.Time) *orders.LifecycleUseCase {
	t.Helper()
	policy, err := delivery.NewPolicy(delivery.DefaultCutoff, time.UTC)
	require.NoError(t, err)

	runner := &fakeTxRunner{s: store}
	ledger := stock.NewLedgerUseCase(runner, &fakeStockRepo{store}, &fakeChangeRepo{store}, &fakeProductRepo{store})
	return orders.NewLifecycleUseCase(runner, ledger, policy, &fakeOrderRepo{store}).
		WithClock(func() time.Time { return now })
}

func seededStore() *fakeStore {
	store := newFakeStore()
	store.addProduct(1, "Harina de maíz 1kg", "2.50", true)
	store.addProduct(2, "Arroz blanco 1kg", "1.80", true)
	store.setStock(1, 10)
	store.setStock(2, 20)
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Crear un pedido de 3 unidades con stock 10 deja el stock en 7 y registra el
// cambio en el historial como "order".
func TestCreate_DescuentaStockYRegistraHistorial(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)

	view, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), store.quantity(1), "el stock debe quedar en 10-3=7")
	assert.Equal(t, entity.OrderStatusPending, view.Status, "el pedido nace en pending")
	assert.True(t, strings.HasPrefix(view.OrderNumber, "EA-"), "el número lleva el prefijo EA-")

	cambios := store.changesOfKind(entity.ChangeKindOrder)
	require.Len(t, cambios, 1, "la reserva deja una entrada en el historial")
	assert.Equal(t, int64(10), cambios[0].OldQuantity)
	assert.Equal(t, int64(7), cambios[0].NewQuantity)
	assert.Equal(t, testUserID, cambios[0].UpdatedBy)
}

// El total es la suma de línea (precio vigente × cantidad).
func TestCreate_TotalYSnapshotDePrecio(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)

	view, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotAfternoon,
		Items: []dto.OrderItemRequest{
			{ProductID: 1, Quantity: 2}, // 2 × 2.50 = 5.00
			{ProductID: 2, Quantity: 3}, // 3 × 1.80 = 5.40
		},
	})
	require.NoError(t, err)

	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("10.40")),
		"total esperado 10.40, obtenido %s", view.TotalAmount)
	require.Len(t, view.Lines, 2)
	assert.True(t, view.Lines[0].UnitPrice.Equal(decimal.RequireFromString("2.50")),
		"la línea guarda el precio vigente como snapshot")
}

// Stock 2, se piden 5: InsufficientStockError con detalle y nada queda a medias.
func TestCreate_StockInsuficienteNoDejaEstadoParcial(t *testing.T) {
	store := seededStore()
	store.setStock(2, 2)
	uc := newLifecycle(t, store, beforeCutoff)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items: []dto.OrderItemRequest{
			{ProductID: 1, Quantity: 3}, // alcanza
			{ProductID: 2, Quantity: 5}, // no alcanza
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "debe reportar el faltante")
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(2), stockErr.Available)

	// Rollback total: ni pedidos, ni descuento del producto 1, ni historial
	assert.Equal(t, int64(10), store.quantity(1), "el producto con stock suficiente no se descuenta")
	assert.Equal(t, int64(2), store.quantity(2), "el stock faltante queda intacto")
	assert.Empty(t, store.orders, "no debe crearse ningún pedido")
	assert.Empty(t, store.changes, "no debe quedar historial de una reserva fallida")
}

// Ítems duplicados del mismo producto se consolidan antes de verificar stock.
func TestCreate_ItemsDuplicadosSeConsolidan(t *testing.T) {
	store := seededStore()
	store.setStock(1, 5)
	uc := newLifecycle(t, store, beforeCutoff)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items: []dto.OrderItemRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 3}, // 6 en total > 5 disponibles
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr,
		"dos líneas del mismo producto deben verificarse como una sola cantidad")
	assert.Equal(t, int64(6), stockErr.Requested)
	assert.Equal(t, int64(5), store.quantity(1), "el stock no se toca")
}

func TestCreate_ProductoInexistenteOInactivo(t *testing.T) {
	store := seededStore()
	store.addProduct(3, "Descontinuado", "9.99", false)
	store.setStock(3, 50)
	uc := newLifecycle(t, store, beforeCutoff)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "producto inexistente no es pedible")

	_, err = uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 3, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "producto inactivo no es pedible")
}

func TestCreate_ValidacionDeEntrada(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	_, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{DeliverySlot: entity.SlotMorning})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ítems")

	_, err = uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: "night",
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "franja desconocida")

	_, err = uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// Sin fecha: se autocompleta con la próxima disponible (mañana antes del corte).
func TestCreate_FechaAutocompletada(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)

	view, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotEvening,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", view.DeliveryDate, "antes del corte la entrega es mañana")
}

// A las 19:00 sin confirmación: PolicyError; con force_after_cutoff se crea
// para pasado mañana.
func TestCreate_DespuesDelCorteExigeConfirmacion(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, afterCutoff)
	ctx := context.Background()

	_, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	var polErr *domain.PolicyError
	require.ErrorAs(t, err, &polErr, "después del corte sin confirmar debe fallar")
	assert.Equal(t, int64(10), store.quantity(1), "el stock no se toca")

	view, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot:     entity.SlotMorning,
		ForceAfterCutoff: true,
		Items:            []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err, "con force_after_cutoff el pedido procede")
	assert.Equal(t, "2025-03-12", view.DeliveryDate, "la entrega se corre a pasado mañana")
}

// Una fecha explícita que quedó atrás del corte se rechaza con PolicyError.
func TestCreate_FechaExplicitaFueraDePolitica(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, afterCutoff)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot:     entity.SlotMorning,
		DeliveryDate:     "2025-03-11", // mañana ya no vale después del corte
		ForceAfterCutoff: true,
		Items:            []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	var polErr *domain.PolicyError
	require.ErrorAs(t, err, &polErr)
	assert.Contains(t, polErr.Reason, "2025-03-12", "el error indica la próxima fecha disponible")
}

// Colisión de order_number: cada reintento repite la transacción completa con
// un número nuevo. Un INSERT fallido aborta la tx en Postgres, así que el
// reintento no puede reutilizarla; los intentos fallidos no dejan rastro.
func TestCreate_ReintentaNumeroDuplicadoEnTxNueva(t *testing.T) {
	store := seededStore()
	store.duplicateCreates = 2 // dos colisiones, el tercer intento entra
	uc := newLifecycle(t, store, beforeCutoff)

	view, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err, "dos colisiones deben absorberse con reintento")
	assert.NotEmpty(t, view.OrderNumber)

	// Los intentos abortados no dejan estado: una sola reserva, un pedido
	assert.Equal(t, int64(7), store.quantity(1), "el stock se descuenta una sola vez")
	assert.Len(t, store.orders, 1, "solo queda el pedido del intento exitoso")
	assert.Len(t, store.changesOfKind(entity.ChangeKindOrder), 1,
		"solo el intento exitoso deja historial")
}

// Agotados los reintentos sale ErrDuplicate y nada queda persistido.
func TestCreate_ColisionesAgotanReintentos(t *testing.T) {
	store := seededStore()
	store.duplicateCreates = 3
	uc := newLifecycle(t, store, beforeCutoff)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "agotados los reintentos sale ErrDuplicate")
	assert.Equal(t, int64(10), store.quantity(1), "el stock queda intacto")
	assert.Empty(t, store.orders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

// Crear (stock 10 → 7) y cancelar devuelve el stock a 10 con su entrada
// "order_cancel" en el historial.
func TestCancel_DevuelveStockYRegistraHistorial(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.quantity(1))

	view, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, view.Status)
	assert.Equal(t, int64(10), store.quantity(1), "el stock vuelve a 10")

	liberaciones := store.changesOfKind(entity.ChangeKindOrderCancel)
	require.Len(t, liberaciones, 1, "la liberación queda en el historial")
	assert.Equal(t, int64(7), liberaciones[0].OldQuantity)
	assert.Equal(t, int64(10), liberaciones[0].NewQuantity)
}

// Cancelar dos veces es idempotente: la segunda no vuelve a sumar stock.
func TestCancel_Idempotente(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	view, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err, "la segunda cancelación no es error")

	assert.Equal(t, entity.OrderStatusCancelled, view.Status)
	assert.Equal(t, int64(10), store.quantity(1), "el stock no se suma dos veces")
	assert.Len(t, store.changesOfKind(entity.ChangeKindOrderCancel), 1,
		"solo hay una liberación en el historial")
}

// Un pedido entregado no se puede cancelar.
func TestCancel_PedidoEntregadoFalla(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	store.orders[created.ID].Status = entity.OrderStatusDelivered

	_, err = uc.Cancel(ctx, created.ID)
	var transErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, entity.OrderStatusDelivered, transErr.From)
	assert.Equal(t, int64(7), store.quantity(1), "el stock de un pedido entregado no se libera")
}

func TestCancel_PedidoInexistente(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)

	_, err := uc.Cancel(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_FlujoCompleto(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	for _, destino := range []string{
		entity.OrderStatusConfirmed,
		entity.OrderStatusPreparing,
		entity.OrderStatusOutForDelivery,
		entity.OrderStatusDelivered,
	} {
		view, err := uc.UpdateStatus(ctx, created.ID, destino)
		require.NoError(t, err, "transición a %s", destino)
		assert.Equal(t, destino, view.Status)
	}
}

func TestUpdateStatus_TransicionInvalida(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, created.ID, entity.OrderStatusDelivered)
	var transErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transErr, "pending no puede saltar a delivered")
	assert.Equal(t, entity.OrderStatusPending, transErr.From)
}

// Cancelar vía UpdateStatus está prohibido: saltaría la liberación de stock.
func TestUpdateStatus_RechazaCancelledComoDestino(t *testing.T) {
	store := seededStore()
	uc := newLifecycle(t, store, beforeCutoff)
	ctx := context.Background()

	created, err := uc.Create(ctx, testUserID, dto.CreateOrderRequest{
		DeliverySlot: entity.SlotMorning,
		Items:        []dto.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, created.ID, entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"cancelled solo se alcanza vía Cancel, que libera el stock")
	assert.Equal(t, int64(8), store.quantity(1), "el stock reservado sigue descontado")
}
