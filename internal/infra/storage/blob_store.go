// Package storage persists uploaded images in a gocloud blob bucket.
package storage

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Bucket drivers resolved by URL scheme.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// blobImageStore implements service.ImageStore on a gocloud bucket, so the
// same code serves local directories in development and object storage in
// production.
type blobImageStore struct {
	bucket  *blob.Bucket
	baseURL string
}

// NewBlobImageStore is the constructor for blobImageStore. The bucket is
// closed on shutdown via the fx lifecycle.
func NewBlobImageStore(lc fx.Lifecycle, cfg *config.Config) (service.ImageStore, error) {
	if cfg.Upload == nil || cfg.Upload.BucketURL == "" {
		return nil, errors.New("upload bucket url is required")
	}

	bucket, err := blob.OpenBucket(context.Background(), cfg.Upload.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.Upload.BucketURL)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bucket.Close()
		},
	})

	return &blobImageStore{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(cfg.Upload.PublicBaseURL, "/"),
	}, nil
}

func (s *blobImageStore) Put(ctx context.Context, namespace string, target service.UploadTarget, contentType string, data []byte) (*service.StoredObject, error) {
	if int64(len(data)) > target.MaxSize {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("%s: file exceeds %d bytes", target.FieldName, target.MaxSize))
	}
	if !target.Allows(contentType) {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("%s: unsupported content type %q", target.FieldName, contentType))
	}

	key := fmt.Sprintf("%s/%s%s", namespace, uuid.New().String(), extensionFor(contentType))

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrap(err, "open blob writer")
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()

		return nil, errors.Wrap(err, "write blob")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close blob writer")
	}

	return &service.StoredObject{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

func (s *blobImageStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "delete blob %s", key)
	}

	return nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}

	return exts[len(exts)-1]
}
