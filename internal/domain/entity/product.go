package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. AverageRating and NumOfReviews are denormalized
// aggregates recomputed by the review service whenever a review is written or
// removed; they are never edited directly.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         float64
	Category      string
	Stock         int
	Images        []ProductImage
	AverageRating float64
	NumOfReviews  int
	CreatedBy     uuid.UUID // admin who created the product
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductImage is a stored catalog image, addressed by its blob key.
type ProductImage struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Key       string // key inside the image bucket
	URL       string
	CreatedAt time.Time
}
