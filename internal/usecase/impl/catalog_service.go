package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	imageStore  service.ImageStore
	imageTarget service.UploadTarget
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	ImageStore  service.ImageStore
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	maxSize := int64(5 << 20)
	if params.Config.Upload != nil {
		maxSize = params.Config.Upload.MaxSizeBytes
	}

	return &catalogService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		imageStore:  params.ImageStore,
		imageTarget: service.UploadTarget{
			FieldName:    "image",
			MaxSize:      maxSize,
			AllowedTypes: []string{"image/png", "image/jpeg", "image/webp"},
		},
		logger: params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) UploadImage(ctx context.Context, productID uuid.UUID, contentType string, data []byte) (*entity.ProductImage, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	stored, err := srv.imageStore.Put(ctx, "products", srv.imageTarget, contentType, data)
	if err != nil {
		return nil, err
	}

	image := &entity.ProductImage{
		ProductID: productID,
		Key:       stored.Key,
		URL:       stored.URL,
	}
	if err := srv.productRepo.AddImage(ctx, image); err != nil {
		// The row failed, so the stored blob is unreachable; best effort
		// cleanup before surfacing the error.
		if delErr := srv.imageStore.Delete(ctx, stored.Key); delErr != nil {
			srv.log(ctx).Warn("Failed to clean up orphaned image", slog.String("key", stored.Key), slog.Any("error", delErr))
		}

		return nil, errors.Wrap(err, "failed to attach product image")
	}

	srv.log(ctx).Info("Product image uploaded", slog.Any("productID", productID), slog.String("key", stored.Key))

	return image, nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to find product")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ReviewRepo().DeleteByProduct(ctx, productID); err != nil {
			return err
		}

		return repoFactory.ProductRepo().Delete(ctx, productID)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	// Blob cleanup happens after the transaction commits; a leftover object is
	// recoverable, a half-deleted product is not.
	for _, image := range product.Images {
		if err := srv.imageStore.Delete(ctx, image.Key); err != nil {
			srv.log(ctx).Warn("Failed to delete product image blob", slog.String("key", image.Key), slog.Any("error", err))
		}
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", productID))

	return nil
}
