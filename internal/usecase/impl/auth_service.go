// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

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

// avatarTarget bounds avatar uploads; product images get their own target in
// the catalog service.
var avatarTarget = service.UploadTarget{
	FieldName:    "avatar",
	MaxSize:      2 << 20,
	AllowedTypes: []string{"image/png", "image/jpeg", "image/webp"},
}

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	mailer       service.Mailer
	imageStore   service.ImageStore
	resetWindow  time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Mailer       service.Mailer
	ImageStore   service.ImageStore
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		mailer:       params.Mailer,
		imageStore:   params.ImageStore,
		resetWindow:  params.Config.Auth.ResetWindow,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if input.Password != input.PasswordConfirm {
		return nil, domainerrors.ErrPasswordMismatch
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         entity.RoleUser,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, err
		}

		srv.log(ctx).Error("Failed to create user", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID))

	return srv.issueFor(user)
}

func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password; the response must not reveal
			// whether the email is registered.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return srv.issueFor(user)
}

func (srv *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

func (srv *authService) UpdateMe(ctx context.Context, userID uuid.UUID, input usecase.UpdateMeInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	return user, nil
}

func (srv *authService) UpdateAvatar(ctx context.Context, userID uuid.UUID, contentType string, data []byte) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	stored, err := srv.imageStore.Put(ctx, "avatars", avatarTarget, contentType, data)
	if err != nil {
		return nil, err
	}

	previous := user.AvatarKey
	user.AvatarKey = stored.Key
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update avatar")
	}

	if previous != "" {
		if err := srv.imageStore.Delete(ctx, previous); err != nil {
			srv.log(ctx).Warn("Failed to delete previous avatar", slog.String("key", previous), slog.Any("error", err))
		}
	}

	return user, nil
}

func (srv *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Uniform success; the caller learns nothing about the account.
			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	rawToken, err := newResetToken()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	user.PasswordResetHash = hashResetToken(rawToken)
	user.PasswordResetExpiresAt = srv.now().Add(srv.resetWindow)
	if err := srv.userRepo.UpdateResetTicket(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reset ticket")
	}

	mail := service.Mail{
		To:      user.Email,
		Subject: "Your password reset token (valid for a limited time)",
		HTML: fmt.Sprintf(
			"<p>Forgot your password? Submit a request with your new password and this token: <b>%s</b></p>"+
				"<p>If you didn't forget your password, please ignore this email.</p>",
			rawToken),
	}
	if err := srv.mailer.Send(ctx, mail); err != nil {
		// Roll the ticket back so a token that was never delivered cannot
		// linger on the account.
		user.ClearResetTicket()
		if rbErr := srv.userRepo.UpdateResetTicket(ctx, user); rbErr != nil {
			srv.log(ctx).Error("Failed to roll back reset ticket", slog.Any("userID", user.ID), slog.Any("error", rbErr))
		}

		return err
	}

	srv.log(ctx).Info("Password reset mail sent", slog.Any("userID", user.ID))

	return nil
}

func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) (*usecase.AuthOutput, error) {
	if input.Password != input.PasswordConfirm {
		return nil, domainerrors.ErrPasswordMismatch
	}

	user, err := srv.userRepo.FindByResetHash(ctx, hashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Wrong and expired tokens are indistinguishable here.
			return nil, domainerrors.ErrResetTicketInvalid
		}

		return nil, errors.Wrap(err, "failed to look up reset ticket")
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = hashed
	// JWT iat carries second precision, so a sub-second watermark would sit
	// after the iat of the token issued right below and kill it on arrival.
	user.PasswordChangedAt = srv.now().Truncate(time.Second)
	user.ClearResetTicket()

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Update(ctx, user)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist password reset")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return srv.issueFor(user)
}

func (srv *authService) VerifyAccess(ctx context.Context, token string) (*service.Claims, error) {
	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthenticated
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	// Tokens minted before the credentials-changed watermark are dead even if
	// their own expiry has not elapsed.
	if !user.PasswordChangedAt.IsZero() && claims.IssuedAt.Before(user.PasswordChangedAt) {
		return nil, domainerrors.ErrUnauthenticated
	}

	claims.Role = user.Role

	return claims, nil
}

func (srv *authService) issueFor(user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// newResetToken returns 20 random bytes hex-encoded; only its sha256 hash is
// ever persisted.
func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}
