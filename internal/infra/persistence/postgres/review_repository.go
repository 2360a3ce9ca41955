package postgres

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var reviewColumns = map[string]string{
	"product_id": "product_id",
	"user_id":    "user_id",
	"rating":     "rating",
	"comment":    "comment",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// reviewRepository implements repository.ReviewRepository.
type reviewRepository struct {
	*collection[entity.Review, model.ReviewModel]
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB, cfg *config.Config) repository.ReviewRepository {
	return newReviewRepository(db, cfg)
}

func newReviewRepository(db *gorm.DB, cfg *config.Config) *reviewRepository {
	return &reviewRepository{
		collection: &collection[entity.Review, model.ReviewModel]{
			db: db,
			opts: query.Options{
				SearchField:  "comment",
				DefaultLimit: cfg.API.DefaultPageSize,
				Fields:       fieldSet(reviewColumns),
			},
			columns:    reviewColumns,
			toDomain:   toReviewDomain,
			fromDomain: fromReviewDomain,
			notFound:   repository.ErrReviewNotFound,
		},
	}
}

func (repo *reviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&reviewM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	return toReviewDomain(&reviewM), nil
}

// DeleteByProduct removes every review of the product. This is the explicit
// cascade step the catalog service runs before deleting a product.
func (repo *reviewRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ReviewModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete reviews for product")
	}

	return nil
}

// Aggregate recomputes the rating summary over the product's reviews.
func (repo *reviewRepository) Aggregate(ctx context.Context, productID uuid.UUID) (entity.RatingSummary, error) {
	var result struct {
		AverageRating float64
		NumOfReviews  int
	}

	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS num_of_reviews").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return entity.RatingSummary{}, errors.Wrap(err, "failed to aggregate reviews")
	}

	return entity.RatingSummary{
		AverageRating: result.AverageRating,
		NumOfReviews:  result.NumOfReviews,
	}, nil
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}
