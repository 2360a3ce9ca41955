// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateMeInput carries the profile fields a user may change about themselves.
// Empty fields are left untouched.
type UpdateMeInput struct {
	Name  string
	Email string
}

// ResetPasswordInput consumes a password-reset ticket.
type ResetPasswordInput struct {
	Token           string // raw ticket from the reset mail
	Password        string
	PasswordConfirm string
}

// --- Output DTOs ---

// AuthOutput returns the signed access token together with the subject. The
// handler writes the token both into the JSON payload and the auth cookie.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase defines the account and credential lifecycle operations.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*entity.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, contentType string, data []byte) (*entity.User, error)

	// RequestPasswordReset issues a single-use reset ticket and mails the raw
	// token. It succeeds uniformly whether or not the email is registered,
	// except when mail delivery itself fails.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword consumes the ticket: on success the password is replaced,
	// the ticket cleared and the credentials-changed watermark bumped, and a
	// fresh token is issued.
	ResetPassword(ctx context.Context, input ResetPasswordInput) (*AuthOutput, error)

	// VerifyAccess validates a bearer token end to end: signature, expiry and
	// the subject's credentials-changed watermark. Tokens issued before the
	// watermark fail exactly like invalid ones.
	VerifyAccess(ctx context.Context, token string) (*service.Claims, error)
}
