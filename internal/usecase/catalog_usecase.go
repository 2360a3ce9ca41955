package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CatalogUsecase covers the product operations with side effects beyond a
// plain row write; plain CRUD goes through the generic resource handler.
type CatalogUsecase interface {
	// UploadImage stores the image bytes in the blob bucket and attaches the
	// resulting object to the product.
	UploadImage(ctx context.Context, productID uuid.UUID, contentType string, data []byte) (*entity.ProductImage, error)

	// DeleteProduct removes the product together with its reviews and stored
	// images. The review cascade runs inside the product's delete transaction.
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}
