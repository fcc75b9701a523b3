package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int, activeOnly bool) ([]*entity.Product, error)
	ListByCategory(category string, limit, offset int) ([]*entity.Product, error)
	Search(query string, limit, offset int) ([]*entity.Product, error)
	// Deactivate baja lógica: los pedidos existentes conservan sus snapshots de precio.
	Deactivate(id int64) error
}
