package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de un pedido.
type ReceiptUseCase struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, userRepo: userRepo, generator: generator}
}

// Generate arma los datos del comprobante y devuelve los bytes del PDF.
func (uc *ReceiptUseCase) Generate(ctx context.Context, orderID int64) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	lines, err := uc.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateOrderReceipt(ctx, &OrderReceiptData{
		Order: order,
		User:  user,
		Lines: lines,
	})
}
