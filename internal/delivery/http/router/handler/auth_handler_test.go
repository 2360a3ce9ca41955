package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase lets each test override just the operations it exercises.
type stubAuthUsecase struct {
	login func(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error)
}

func (s *stubAuthUsecase) Register(context.Context, usecase.RegisterInput) (*usecase.AuthOutput, error) {
	return nil, domainerrors.ErrInternalError
}

func (s *stubAuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	return s.login(ctx, input)
}

func (s *stubAuthUsecase) Me(context.Context, uuid.UUID) (*entity.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (s *stubAuthUsecase) UpdateMe(context.Context, uuid.UUID, usecase.UpdateMeInput) (*entity.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (s *stubAuthUsecase) UpdateAvatar(context.Context, uuid.UUID, string, []byte) (*entity.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (s *stubAuthUsecase) RequestPasswordReset(context.Context, string) error {
	return nil
}

func (s *stubAuthUsecase) ResetPassword(context.Context, usecase.ResetPasswordInput) (*usecase.AuthOutput, error) {
	return nil, domainerrors.ErrResetTicketInvalid
}

func (s *stubAuthUsecase) VerifyAccess(context.Context, string) (*service.Claims, error) {
	return nil, domainerrors.ErrUnauthenticated
}

func newAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		uc:            uc,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokenLifetime: time.Hour,
		cookieSecure:  true,
	}
}

func TestLoginSetsAuthCookieAndOmitsPasswordHash(t *testing.T) {
	user := &entity.User{
		ID:           uuid.New(),
		Name:         "Jo",
		Email:        "jo@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         entity.RoleUser,
	}
	uc := &stubAuthUsecase{
		login: func(_ context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
			assert.Equal(t, "jo@example.com", input.Email)

			return &usecase.AuthOutput{Token: "signed-token", User: user}, nil
		},
	}

	h := newAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"jo@example.com","password":"hunter22"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.AuthCookieName, cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	assert.Contains(t, rec.Body.String(), "signed-token")
	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
}

func TestLoginRejectsMalformedPayload(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})
	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email"}`)

	err := h.Login(c)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})
	c, rec := newTestContext(t, http.MethodGet, "/auth/logout", "")

	require.NoError(t, h.Logout(c))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
