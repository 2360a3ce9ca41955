// Package repository defines the persistence interfaces the use cases depend
// on. Concrete implementations live in internal/infra/persistence.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Sentinel errors returned by repositories. Use cases translate them into the
// domain error taxonomy.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrMpesaTxNotFound  = errors.New("mpesa transaction not found")
	ErrNoOrderedProduct = errors.New("no order containing the product")
)

// UserRepository persists User entities, including the credential state the
// token lifecycles depend on (password hash, watermark, reset ticket fields).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByResetHash returns the user holding the given reset-ticket hash
	// with an unexpired window; expired and absent tickets both yield
	// ErrUserNotFound.
	FindByResetHash(ctx context.Context, hash string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// UpdateResetTicket writes (or clears, with empty values) only the reset
	// ticket fields, leaving the rest of the row untouched.
	UpdateResetTicket(ctx context.Context, user *entity.User) error
}
