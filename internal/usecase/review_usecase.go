package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to post a review.
type CreateReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
}

// ReviewUsecase covers review writes. Both operations recompute the product's
// denormalized rating summary in the same transaction as the review change.
type ReviewUsecase interface {
	// CreateReview posts a review. The caller must have ordered the product
	// and must not have reviewed it before.
	CreateReview(ctx context.Context, input CreateReviewInput) (*entity.Review, error)

	// DeleteReview removes a review. Non-admin callers may only delete their
	// own.
	DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, actorRole entity.Role) error
}
