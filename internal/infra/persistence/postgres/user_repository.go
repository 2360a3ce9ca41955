package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByResetHash matches an unexpired reset ticket. Expired and absent
// tickets both come back as ErrUserNotFound so callers cannot tell them
// apart.
func (repo *userRepository) FindByResetHash(ctx context.Context, hash string) (*entity.User, error) {
	return repo.findOne(ctx, "password_reset_hash = ? AND password_reset_expires_at > ?", hash, time.Now())
}

func (repo *userRepository) findOne(ctx context.Context, cond string, args ...any) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where(cond, args...).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdateResetTicket writes only the reset ticket columns. Passing zero values
// clears the ticket; NULL is stored for the expiry so the partial index stays
// small.
func (repo *userRepository) UpdateResetTicket(ctx context.Context, user *entity.User) error {
	var expiresAt *time.Time
	if !user.PasswordResetExpiresAt.IsZero() {
		expiresAt = &user.PasswordResetExpiresAt
	}

	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"password_reset_hash":       user.PasswordResetHash,
			"password_reset_expires_at": expiresAt,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update reset ticket")
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:                data.ID,
		Name:              data.Name,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Role:              entity.Role(data.Role),
		AvatarKey:         data.AvatarKey,
		PasswordChangedAt: data.PasswordChangedAt,
		PasswordResetHash: data.PasswordResetHash,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
	if data.PasswordResetExpiresAt != nil {
		user.PasswordResetExpiresAt = *data.PasswordResetExpiresAt
	}

	return user
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:                data.ID,
		Name:              data.Name,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Role:              data.Role.String(),
		AvatarKey:         data.AvatarKey,
		PasswordChangedAt: data.PasswordChangedAt,
		PasswordResetHash: data.PasswordResetHash,
	}
	if !data.PasswordResetExpiresAt.IsZero() {
		expiresAt := data.PasswordResetExpiresAt
		userM.PasswordResetExpiresAt = &expiresAt
	}

	return userM
}
