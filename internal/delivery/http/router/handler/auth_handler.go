// Package handler contains the HTTP handlers for the application.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"storefront/config"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxAvatarBytes bounds how much of an avatar upload is read into memory
// before the image store applies its own per-target limit.
const maxAvatarBytes = 5 << 20

// AuthHandler holds dependencies for account and credential handlers.
type AuthHandler struct {
	uc            usecase.AuthUsecase
	logger        *slog.Logger
	tokenLifetime time.Duration
	cookieSecure  bool
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:            uc,
		logger:        logger,
		tokenLifetime: cfg.Auth.TokenLifetime,
		cookieSecure:  cfg.Auth.CookieSecure,
	}
}

type registerRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// Register handles account creation and signs the caller in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid registration payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookie(c, output.Token)

	return response.Success(c, http.StatusCreated, echo.Map{
		"token": output.Token,
		"user":  toUserView(output.User),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid login payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookie(c, output.Token)

	return response.Success(c, http.StatusOK, echo.Map{
		"token": output.Token,
		"user":  toUserView(output.User),
	})
}

// Logout expires the auth cookie. The access token itself stays valid until
// its expiry; invalidation happens only through the credentials-changed
// watermark.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearAuthCookie(c)

	return response.Message(c, http.StatusOK, "Logged out")
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	user, err := h.uc.Me(c.Request().Context(), principal.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

type updateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateMe handles profile changes for the authenticated user.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid profile payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateMe(c.Request().Context(), principal.UserID, usecase.UpdateMeInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// UpdateAvatar handles the multipart avatar upload for the authenticated user.
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	contentType, data, err := readUpload(c, "avatar", maxAvatarBytes)
	if err != nil {
		return err
	}

	user, err := h.uc.UpdateAvatar(c.Request().Context(), principal.UserID, contentType, data)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword starts the password-reset flow. The response is identical
// whether or not the address is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "If the address is registered, a reset link has been sent")
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// ResetPassword consumes a reset ticket and signs the caller in with fresh
// credentials.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:           c.Param("token"),
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookie(c, output.Token)

	return response.Success(c, http.StatusOK, echo.Map{
		"token": output.Token,
		"user":  toUserView(output.User),
	})
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenLifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// readUpload pulls a single multipart file field into memory, enforcing a
// hard byte ceiling.
func readUpload(c echo.Context, field string, limit int64) (string, []byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, domainerrors.ErrValidationFailed.WithDetails("missing file field: " + field)
	}
	if fileHeader.Size > limit {
		return "", nil, domainerrors.ErrValidationFailed.WithDetails("file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, domainerrors.ErrBadRequest.WithDetails("failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return "", nil, domainerrors.ErrBadRequest.WithDetails("failed to read uploaded file")
	}

	return fileHeader.Header.Get(echo.HeaderContentType), data, nil
}
