package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de abarrotes.
// Price es el precio de venta vigente; las líneas de pedido guardan su propia
// copia del precio al momento de crear el pedido (snapshot).
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
