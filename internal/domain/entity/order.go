package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered" // terminal
	OrderStatusCancelled      = "cancelled" // terminal
)

// Franjas de entrega.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// SlotTimeRanges rangos horarios de cada franja (solo presentación).
var SlotTimeRanges = map[string]string{
	SlotMorning:   "8:00 AM - 11:00 AM",
	SlotAfternoon: "12:00 PM - 3:00 PM",
	SlotEvening:   "4:00 PM - 7:00 PM",
}

// IsValidSlot verifica que la franja de entrega sea una de las tres conocidas.
func IsValidSlot(slot string) bool {
	switch slot {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// IsValidOrderStatus verifica que el estado pertenezca a la máquina de estados.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// orderTransitions tabla de transiciones permitidas:
// pending -> confirmed -> preparing -> out_for_delivery -> delivered,
// y cualquier estado no terminal -> cancelled.
var orderTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// CanTransition indica si el cambio de estado from -> to está permitido.
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus indica si el estado no admite más transiciones.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// Order representa la cabecera de un pedido.
// OrderNumber es el identificador externo legible (único); ID es el interno.
type Order struct {
	ID           int64
	OrderNumber  string
	UserID       int64
	DeliveryDate time.Time // solo fecha, normalizada a medianoche local
	DeliverySlot string
	Status       string
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine representa una línea de pedido. UnitPrice es el snapshot del precio
// al momento de crear el pedido; LineTotal = UnitPrice × Quantity.
// Las líneas nunca se modifican después de crear el pedido.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
