package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el stock por producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el registro de stock; si no existe, un registro con Quantity 0
	// (ausencia ≡ stock cero, no es error).
	Get(productID int64) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID int64) (*entity.StockRecord, error)
	Upsert(rec *entity.StockRecord) error
}

// StockChangeRepository define el puerto del historial de cambios de stock (append-only).
type StockChangeRepository interface {
	Append(change *entity.StockChange) error
	ListByProduct(productID int64, limit, offset int) ([]*entity.StockChange, error)
}
