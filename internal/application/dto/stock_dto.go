package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetStockRequest body para PUT /api/stock/update y POST /api/stock/initialize.
// Kind es opcional; por defecto "manual".
type SetStockRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Kind      string `json:"kind,omitempty"`
}

// BulkSetStockRequest body para PUT /api/stock/bulk-update (conteos programados).
type BulkSetStockRequest struct {
	Kind    string            `json:"kind,omitempty"`
	Updates []SetStockRequest `json:"updates"`
}

// AvailabilityItemRequest ítem a verificar en POST /api/stock/check-availability.
type AvailabilityItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CheckAvailabilityRequest body para POST /api/stock/check-availability.
type CheckAvailabilityRequest struct {
	Items []AvailabilityItemRequest `json:"items"`
}

// AvailabilityItemView resultado de disponibilidad por producto.
type AvailabilityItemView struct {
	ProductID  int64 `json:"product_id"`
	Requested  int64 `json:"requested_quantity"`
	Available  int64 `json:"available_quantity"`
	Sufficient bool  `json:"sufficient"`
}

// StockView registro de stock en respuestas.
type StockView struct {
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedBy int64     `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockWithProductView registro de stock con datos del producto (listados).
type StockWithProductView struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	UpdatedBy   int64           `json:"updated_by"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockChangeView entrada del historial de cambios de stock.
type StockChangeView struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	OldQuantity int64     `json:"old_quantity"`
	NewQuantity int64     `json:"new_quantity"`
	UpdatedBy   int64     `json:"updated_by"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockStatsResponse estadísticas globales de stock.
type StockStatsResponse struct {
	TotalProducts   int64           `json:"total_products"`
	TotalQuantity   int64           `json:"total_quantity"`
	AverageQuantity decimal.Decimal `json:"average_quantity"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
}
