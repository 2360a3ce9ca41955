package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	logger    *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Logger    *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		logger:    params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *reviewService) CreateReview(ctx context.Context, input usecase.CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	ordered, err := srv.orderRepo.HasUserOrderedProduct(ctx, input.UserID, input.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check order history")
	}
	if !ordered {
		return nil, domainerrors.ErrBadRequest.WithDetails("you can only review products you have ordered")
	}

	review := &entity.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		if _, err := reviewRepo.FindByProductAndUser(ctx, input.ProductID, input.UserID); err == nil {
			return domainerrors.ErrDuplicateReview
		} else if !errors.Is(err, repository.ErrReviewNotFound) {
			return err
		}

		if err := reviewRepo.Create(ctx, review); err != nil {
			// The unique (product, user) index backs up the check above under
			// concurrency.
			if errors.Is(err, domainerrors.ErrConflict) {
				return domainerrors.ErrDuplicateReview
			}

			return err
		}

		return srv.recomputeRating(ctx, repoFactory, input.ProductID)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateReview) {
			return nil, domainerrors.ErrDuplicateReview
		}

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review created", slog.Any("productID", input.ProductID), slog.Any("userID", input.UserID))

	return review, nil
}

func (srv *reviewService) DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, actorRole entity.Role) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		review, err := reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actorID && actorRole != entity.RoleAdmin {
			return domainerrors.ErrForbidden
		}

		if err := reviewRepo.Delete(ctx, reviewID); err != nil {
			return err
		}

		return srv.recomputeRating(ctx, repoFactory, review.ProductID)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return domainerrors.ErrNotFound
		case errors.Is(err, domainerrors.ErrForbidden):
			return domainerrors.ErrForbidden
		}

		return errors.Wrap(err, "failed to delete review")
	}

	srv.log(ctx).Info("Review deleted", slog.Any("reviewID", reviewID))

	return nil
}

// recomputeRating refreshes the product's denormalized rating summary from
// the surviving reviews, inside the caller's transaction.
func (srv *reviewService) recomputeRating(ctx context.Context, repoFactory repository.RepositoryFactory, productID uuid.UUID) error {
	summary, err := repoFactory.ReviewRepo().Aggregate(ctx, productID)
	if err != nil {
		return err
	}

	return repoFactory.ProductRepo().UpdateRatingSummary(ctx, productID, summary)
}
