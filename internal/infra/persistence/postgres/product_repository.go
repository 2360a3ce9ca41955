package postgres

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productColumns is the exposed field set of the product collection; the
// query translator rejects anything outside it.
var productColumns = map[string]string{
	"name":           "name",
	"description":    "description",
	"price":          "price",
	"category":       "category",
	"stock":          "stock",
	"average_rating": "average_rating",
	"num_of_reviews": "num_of_reviews",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// productRepository implements repository.ProductRepository: the generic
// collection operations plus the catalog-specific extras.
type productRepository struct {
	*collection[entity.Product, model.ProductModel]
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB, cfg *config.Config) repository.ProductRepository {
	return newProductRepository(db, cfg)
}

func newProductRepository(db *gorm.DB, cfg *config.Config) *productRepository {
	return &productRepository{
		collection: &collection[entity.Product, model.ProductModel]{
			db: db,
			opts: query.Options{
				SearchField:  "name",
				DefaultLimit: cfg.API.DefaultPageSize,
				Fields:       fieldSet(productColumns),
			},
			columns:    productColumns,
			preloads:   []string{"Images"},
			toDomain:   toProductDomain,
			fromDomain: fromProductDomain,
			notFound:   repository.ErrProductNotFound,
		},
	}
}

// UpdateRatingSummary writes the denormalized review aggregates.
func (repo *productRepository) UpdateRatingSummary(ctx context.Context, productID uuid.UUID, summary entity.RatingSummary) error {
	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"average_rating": summary.AverageRating,
			"num_of_reviews": summary.NumOfReviews,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update rating summary")
	}

	return nil
}

// AddImage attaches a stored image record to the product.
func (repo *productRepository) AddImage(ctx context.Context, image *entity.ProductImage) error {
	imageM := &model.ProductImageModel{
		ProductID: image.ProductID,
		Key:       image.Key,
		URL:       image.URL,
	}

	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to attach product image")
	}

	image.ID = imageM.ID
	image.CreatedAt = imageM.CreatedAt

	return nil
}

// PriceByID fetches the authoritative name/price snapshot for checkout.
func (repo *productRepository) PriceByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return repo.FindByID(ctx, id)
}

// fieldSet derives a translator whitelist from a column map.
func fieldSet(columns map[string]string) map[string]struct{} {
	fields := make(map[string]struct{}, len(columns))
	for field := range columns {
		fields[field] = struct{}{}
	}

	return fields
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	images := make([]entity.ProductImage, 0, len(data.Images))
	for _, img := range data.Images {
		images = append(images, entity.ProductImage{
			ID:        img.ID,
			ProductID: img.ProductID,
			Key:       img.Key,
			URL:       img.URL,
			CreatedAt: img.CreatedAt,
		})
	}

	return &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		Category:      data.Category,
		Stock:         data.Stock,
		Images:        images,
		AverageRating: data.AverageRating,
		NumOfReviews:  data.NumOfReviews,
		CreatedBy:     data.CreatedBy,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		Category:      data.Category,
		Stock:         data.Stock,
		AverageRating: data.AverageRating,
		NumOfReviews:  data.NumOfReviews,
		CreatedBy:     data.CreatedBy,
	}
}
