package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderLineDetail línea de pedido con datos del producto (lectura).
type OrderLineDetail struct {
	ID          int64
	ProductID   int64
	ProductName string
	Category    string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Cabecera y líneas se crean como una unidad dentro de la misma transacción.
type OrderRepository interface {
	// Create persiste la cabecera y asigna Order.ID.
	// Devuelve domain.ErrDuplicate si el order_number ya existe (el caller reintenta con otro número).
	Create(order *entity.Order) error
	CreateLine(line *entity.OrderLine) error
	GetByID(id int64) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para cancelaciones y cambios de estado.
	GetForUpdate(id int64) (*entity.Order, error)
	GetByNumber(number string) (*entity.Order, error)
	GetLines(orderID int64) ([]*OrderLineDetail, error)
	UpdateStatus(id int64, status string, updatedAt time.Time) error
	ListByUser(userID int64, limit, offset int) ([]*entity.Order, error)
}
