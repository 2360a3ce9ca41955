package middleware

import (
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthCookieName is the cookie channel of the access token; the Authorization
// header is the other.
const AuthCookieName = "jwt"

// AuthMiddleware authenticates requests and enforces role requirements.
type AuthMiddleware struct {
	auth usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(auth usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate validates the access token end to end (signature, expiry,
// credentials-changed watermark) and stores the principal on the request
// context. The token may arrive as a Bearer header or as the auth cookie.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("missing credentials")
		}

		claims, err := m.auth.VerifyAccess(c.Request().Context(), token)
		if err != nil {
			return err
		}

		principal := deliverycontext.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
		}
		ctx := deliverycontext.WithPrincipal(c.Request().Context(), principal)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole is a middleware factory gating a route group on a role. It must
// run after Authenticate.
func (m *AuthMiddleware) RequireRole(required entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := deliverycontext.GetPrincipal(c.Request().Context())
			if !ok {
				return domainerrors.ErrUnauthenticated
			}
			if principal.Role != required {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
