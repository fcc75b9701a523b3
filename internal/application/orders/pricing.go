package orders

import (
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// pricedLine línea valorada al precio vigente del producto.
type pricedLine struct {
	Product   *entity.Product
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// priceLine resuelve producto y precio unitario vigente para un ítem.
// Un producto inexistente o inactivo no es pedible.
func priceLine(productRepo repository.ProductRepository, productID, quantity int64) (*pricedLine, error) {
	product, err := productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrProductNotFound
	}
	unitPrice := product.Price
	return &pricedLine{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// priceOrder valora todas las líneas y suma el total. Corta en el primer
// producto inexistente. El precio unitario queda copiado en cada línea:
// cambios posteriores del precio del producto no afectan pedidos existentes.
func priceOrder(productRepo repository.ProductRepository, items []dto.OrderItemRequest) ([]*pricedLine, decimal.Decimal, error) {
	lines := make([]*pricedLine, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		line, err := priceLine(productRepo, it.ProductID, it.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lines = append(lines, line)
		total = total.Add(line.LineTotal)
	}
	return lines, total, nil
}
