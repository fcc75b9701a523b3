package entity

import "time"

// Tipos de cambio de stock (conjunto cerrado, auditable).
const (
	ChangeKindMorning     = "morning"      // conteo programado de la mañana
	ChangeKindEvening     = "evening"      // conteo programado de la tarde
	ChangeKindManual      = "manual"       // ajuste manual ad hoc
	ChangeKindOrder       = "order"        // reserva por creación de pedido
	ChangeKindOrderCancel = "order_cancel" // liberación por cancelación de pedido
)

// IsValidChangeKind verifica que el tipo de cambio pertenezca al conjunto cerrado.
func IsValidChangeKind(kind string) bool {
	switch kind {
	case ChangeKindMorning, ChangeKindEvening, ChangeKindManual, ChangeKindOrder, ChangeKindOrderCancel:
		return true
	}
	return false
}

// IsManualChangeKind verifica los tipos que puede indicar un caller externo
// (los tipos order/order_cancel los genera únicamente el ciclo de vida del pedido).
func IsManualChangeKind(kind string) bool {
	switch kind {
	case ChangeKindMorning, ChangeKindEvening, ChangeKindManual:
		return true
	}
	return false
}

// StockRecord representa la cantidad actual de un producto (una fila por producto).
// Invariante: Quantity nunca es negativa; toda mutación queda registrada en un StockChange.
type StockRecord struct {
	ProductID int64
	Quantity  int64
	UpdatedBy int64
	UpdatedAt time.Time
}

// StockChange representa una entrada del historial de cambios de stock.
// Solo se agregan filas; nunca se modifican ni se borran.
type StockChange struct {
	ID          int64
	ProductID   int64
	OldQuantity int64
	NewQuantity int64
	UpdatedBy   int64
	Kind        string
	CreatedAt   time.Time
}
