package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CartItem is one requested line item. Only the product reference and the
// quantity are taken from the client; prices are re-read from the catalog.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines the data required to check out.
type PlaceOrderInput struct {
	UserID       uuid.UUID
	Email        string
	Items        []CartItem
	PaymentToken string
	Tax          float64
	ShippingFee  float64
	// IdempotencyKey is optional; a client retrying a failed checkout sends
	// the same key so the gateway cannot charge twice. When empty a fresh key
	// is generated for the attempt.
	IdempotencyKey string
}

// OrderUsecase covers checkout and the order lifecycle.
type OrderUsecase interface {
	// PlaceOrder charges the card and, only after the gateway confirms,
	// persists the immutable order snapshot.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*entity.Order, error)

	// GetMyOrders lists the subject's orders, newest first.
	GetMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// UpdateStatus applies an admin status transition, stamping DeliveredAt
	// when the order is delivered.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)
}
