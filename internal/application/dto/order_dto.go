package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada en la creación de un pedido.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders.
// DeliveryDate es opcional (formato 2006-01-02); si falta se autocompleta con la
// próxima fecha disponible. ForceAfterCutoff confirma un pedido hecho después
// del corte, aceptando que la entrega se corre un día más.
type CreateOrderRequest struct {
	DeliverySlot     string             `json:"delivery_slot"`
	DeliveryDate     string             `json:"delivery_date,omitempty"`
	ForceAfterCutoff bool               `json:"force_after_cutoff,omitempty"`
	Items            []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest body para PUT /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderLineView línea de pedido en respuestas.
type OrderLineView struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderView vista completa de un pedido con sus líneas.
type OrderView struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	UserID       int64           `json:"user_id"`
	DeliveryDate string          `json:"delivery_date"`
	DeliverySlot string          `json:"delivery_slot"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Lines        []OrderLineView `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderSummary cabecera de pedido en listados (con datos del usuario si aplica).
type OrderSummary struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	UserID       int64           `json:"user_id"`
	UserName     string          `json:"user_name,omitempty"`
	UserEmail    string          `json:"user_email,omitempty"`
	DeliveryDate string          `json:"delivery_date"`
	DeliverySlot string          `json:"delivery_slot"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StatusStatDTO estadística por estado de pedido.
type StatusStatDTO struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderStatsResponse estadísticas de pedidos. TotalRevenue excluye cancelados.
type OrderStatsResponse struct {
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ByStatus     []StatusStatDTO `json:"by_status"`
}

// DeliverySlotView franja de entrega con su rango horario.
type DeliverySlotView struct {
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
	TimeRange string `json:"time_range"`
}
