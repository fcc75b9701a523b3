package orders

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos
// de pedidos y de stock. La creación y la cancelación de pedidos son atómicas:
// o se confirma todo (cabecera, líneas y descuento de stock) o nada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger interfaz para integrar pedidos con el libro de stock.
// ReserveInTx/ReleaseInTx usan los repositorios del caller (misma transacción);
// si ReserveInTx devuelve error (ej: InsufficientStockError), el caller hace rollback.
type StockLedger interface {
	ReserveInTx(
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		items []stock.Item,
		actor int64,
		now time.Time,
	) error
	ReleaseInTx(
		stockRepo repository.StockRepository,
		changeRepo repository.StockChangeRepository,
		items []stock.Item,
		actor int64,
		now time.Time,
	) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *OrderReceiptData) ([]byte, error)
}

// OrderReceiptData datos que necesita el comprobante.
type OrderReceiptData struct {
	Order *entity.Order
	User  *entity.User
	Lines []*repository.OrderLineDetail
}
