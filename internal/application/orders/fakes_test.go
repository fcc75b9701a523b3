package orders_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (snapshot + restore)
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products    map[int64]*entity.Product
	stock       map[int64]*entity.StockRecord
	changes     []*entity.StockChange
	orders      map[int64]*entity.Order
	lines       map[int64][]*entity.OrderLine
	nextOrderID int64
	nextLineID  int64

	// duplicateCreates fuerza N colisiones de order_number consecutivas en Create.
	duplicateCreates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[int64]*entity.Product),
		stock:    make(map[int64]*entity.StockRecord),
		orders:   make(map[int64]*entity.Order),
		lines:    make(map[int64][]*entity.OrderLine),
	}
}

func (s *fakeStore) addProduct(id int64, name, price string, active bool) {
	p, _ := decimal.NewFromString(price)
	s.products[id] = &entity.Product{
		ID: id, Name: name, Price: p, Category: "abarrotes", IsActive: active,
	}
}

func (s *fakeStore) setStock(productID, quantity int64) {
	s.stock[productID] = &entity.StockRecord{ProductID: productID, Quantity: quantity}
}

func (s *fakeStore) quantity(productID int64) int64 {
	if rec, ok := s.stock[productID]; ok {
		return rec.Quantity
	}
	return 0
}

func (s *fakeStore) changesOfKind(kind string) []*entity.StockChange {
	var out []*entity.StockChange
	for _, c := range s.changes {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, rec := range s.stock {
		cp := *rec
		snap.stock[id] = &cp
	}
	for _, c := range s.changes {
		cp := *c
		snap.changes = append(snap.changes, &cp)
	}
	for id, o := range s.orders {
		cp := *o
		snap.orders[id] = &cp
	}
	for id, ls := range s.lines {
		for _, l := range ls {
			cp := *l
			snap.lines[id] = append(snap.lines[id], &cp)
		}
	}
	snap.nextOrderID = s.nextOrderID
	snap.nextLineID = s.nextLineID
	return snap
}

// restore deshace los efectos de una transacción fallida. duplicateCreates no
// se restaura: el contador simula el contenido del índice único, que no
// depende de la transacción abortada.

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.stock = snap.stock
	s.changes = snap.changes
	s.orders = snap.orders
	s.lines = snap.lines
	s.nextOrderID = snap.nextOrderID
	s.nextLineID = snap.nextLineID
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake sobre el almacén
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) List(limit, offset int, activeOnly bool) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) ListByCategory(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Search(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Deactivate(id int64) error {
	if p, ok := r.s.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) Get(productID int64) (*entity.StockRecord, error) {
	if rec, ok := r.s.stock[productID]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.StockRecord{ProductID: productID}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID int64) (*entity.StockRecord, error) {
	return r.Get(productID)
}

func (r *fakeStockRepo) Upsert(rec *entity.StockRecord) error {
	cp := *rec
	r.s.stock[rec.ProductID] = &cp
	return nil
}

type fakeChangeRepo struct{ s *fakeStore }

func (r *fakeChangeRepo) Append(c *entity.StockChange) error {
	c.ID = int64(len(r.s.changes) + 1)
	cp := *c
	r.s.changes = append(r.s.changes, &cp)
	return nil
}

func (r *fakeChangeRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockChange, error) {
	var out []*entity.StockChange
	for i := len(r.s.changes) - 1; i >= 0; i-- {
		if r.s.changes[i].ProductID == productID {
			out = append(out, r.s.changes[i])
		}
	}
	return out, nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	if r.s.duplicateCreates > 0 {
		r.s.duplicateCreates--
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.nextOrderID++
	order.ID = r.s.nextOrderID
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateLine(line *entity.OrderLine) error {
	r.s.nextLineID++
	line.ID = r.s.nextLineID
	cp := *line
	r.s.lines[line.OrderID] = append(r.s.lines[line.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(id int64) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetForUpdate(id int64) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) GetByNumber(number string) (*entity.Order, error) {
	for _, o := range r.s.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetLines(orderID int64) ([]*repository.OrderLineDetail, error) {
	var out []*repository.OrderLineDetail
	for _, l := range r.s.lines[orderID] {
		name, category := "", ""
		if p, ok := r.s.products[l.ProductID]; ok {
			name, category = p.Name, p.Category
		}
		out = append(out, &repository.OrderLineDetail{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: name,
			Category:    category,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(id int64, status string, updatedAt time.Time) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
		o.UpdatedAt = updatedAt
	}
	return nil
}

func (r *fakeOrderRepo) ListByUser(userID int64, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake: snapshot antes de fn, restore si fn falla (rollback)
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	err := fn(&fakeOrderRepo{r.s}, &fakeStockRepo{r.s}, &fakeChangeRepo{r.s}, &fakeProductRepo{r.s})
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunStock(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	changeRepo repository.StockChangeRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	err := fn(&fakeStockRepo{r.s}, &fakeChangeRepo{r.s}, &fakeProductRepo{r.s})
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
