package auth

import (
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtService implements the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret   string
	lifetime time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:   cfg.SecretKey.Access,
		lifetime: cfg.Auth.TokenLifetime,
	}, nil
}

// Issue creates a signed access token carrying subject id, role and issue time.
func (s *jwtService) Issue(userID uuid.UUID, role entity.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Verify checks signature and expiry and extracts the claims. The watermark
// rule is layered on by the auth use case, which knows the subject record.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("subject missing from token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject id in token")
	}

	role, _ := claims["role"].(string)
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, errors.New("issue time missing from token")
	}

	return &service.Claims{
		UserID:   userID,
		Role:     entity.Role(role),
		IssuedAt: iat.Time,
	}, nil
}

// Lifetime returns the configured token lifetime.
func (s *jwtService) Lifetime() time.Duration {
	return s.lifetime
}
