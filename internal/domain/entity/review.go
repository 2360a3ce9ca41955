package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a product. A user may review a product only
// once, and only after ordering it; both rules are enforced by the review
// service, not by the database.
type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingSummary is the aggregate the review service writes back onto the
// product after every review mutation.
type RatingSummary struct {
	AverageRating float64
	NumOfReviews  int
}
