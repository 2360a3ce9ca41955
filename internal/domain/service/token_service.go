package service

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims are the verified contents of an access token. IssuedAt is exposed so
// callers can compare it against the subject's credentials-changed watermark.
type Claims struct {
	UserID   uuid.UUID
	Role     entity.Role
	IssuedAt time.Time
}

// TokenService issues and verifies the bearer credential. Tokens are
// stateless; validity is a function of signature, expiry and the per-subject
// watermark checked by the caller.
type TokenService interface {
	// Issue creates a signed access token for the subject.
	Issue(userID uuid.UUID, role entity.Role) (string, error)

	// Verify checks signature and expiry and returns the claims. It does not
	// know about the watermark; VerifyAccess on the auth use case layers the
	// watermark rule on top.
	Verify(token string) (*Claims, error)

	// Lifetime returns the configured token lifetime, also used as the
	// cookie max-age so both delivery channels expire together.
	Lifetime() time.Duration
}
