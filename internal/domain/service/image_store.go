package service

import "context"

// UploadTarget declares the single named upload field an endpoint accepts,
// with its size and content-type constraints. One explicit target per
// endpoint; the store never guesses which request field holds the file.
type UploadTarget struct {
	FieldName    string
	MaxSize      int64
	AllowedTypes []string // MIME types, e.g. image/png
}

// Allows reports whether the content type is acceptable for this target.
func (t UploadTarget) Allows(contentType string) bool {
	for _, allowed := range t.AllowedTypes {
		if allowed == contentType {
			return true
		}
	}

	return false
}

// StoredObject describes a persisted upload.
type StoredObject struct {
	Key string
	URL string
}

// ImageStore persists uploaded images in a blob bucket.
type ImageStore interface {
	// Put validates the payload against the target and stores it under a
	// generated key prefixed with the given namespace.
	Put(ctx context.Context, namespace string, target UploadTarget, contentType string, data []byte) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// QRCodeService renders a payload as a QR code image.
type QRCodeService interface {
	Generate(content string) ([]byte, error)
}
