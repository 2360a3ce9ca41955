package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductRepository persists catalog items. Generic CRUD goes through the
// product Collection; these are the operations the explicit services need on
// top of it.
type ProductRepository interface {
	Collection[entity.Product]

	// UpdateRatingSummary writes the denormalized review aggregates.
	UpdateRatingSummary(ctx context.Context, productID uuid.UUID, summary entity.RatingSummary) error
	// AddImage attaches a stored image to the product.
	AddImage(ctx context.Context, image *entity.ProductImage) error
	// PriceByID returns (name, image, unit price) for checkout snapshotting.
	PriceByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	Collection[entity.Review]

	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*entity.Review, error)
	// DeleteByProduct removes every review of a product. Used by the
	// explicit cascade step when a product is deleted.
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	// Aggregate recomputes the rating summary over the product's reviews.
	Aggregate(ctx context.Context, productID uuid.UUID) (entity.RatingSummary, error)
}
