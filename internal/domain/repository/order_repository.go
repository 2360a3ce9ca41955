package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderRepository persists order snapshots.
type OrderRepository interface {
	Collection[entity.Order]

	// FindByUser lists a user's own orders, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
	// FindByTransactionID looks an order up by its gateway transaction
	// reference; the unique index behind it is what makes a retried persist
	// of the same charge a no-op.
	FindByTransactionID(ctx context.Context, txID string) (*entity.Order, error)
	// HasUserOrderedProduct reports whether any of the user's orders contains
	// the product — the precondition for posting a review.
	HasUserOrderedProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// MpesaRepository persists M-Pesa transaction records built from Daraja
// callbacks.
type MpesaRepository interface {
	Create(ctx context.Context, tx *entity.MpesaTransaction) error
	FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*entity.MpesaTransaction, error)
	FindAll(ctx context.Context) ([]*entity.MpesaTransaction, error)
}
