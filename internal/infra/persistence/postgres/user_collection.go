package postgres

import (
	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// userColumns is the admin-facing field surface of the accounts collection.
// Credential columns (password hash, watermark, reset ticket) are deliberately
// absent so no filter, sort or patch can ever name them.
var userColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"role":       "role",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// NewUserCollection builds the generic account collection behind the admin
// user CRUD surface. It is separate from UserRepository, which owns the
// credential lifecycle.
func NewUserCollection(db *gorm.DB, cfg *config.Config) repository.Collection[entity.User] {
	return &collection[entity.User, model.UserModel]{
		db: db,
		opts: query.Options{
			SearchField:  "name",
			DefaultLimit: cfg.API.DefaultPageSize,
			Fields:       fieldSet(userColumns),
		},
		columns:    userColumns,
		toDomain:   toUserDomain,
		fromDomain: fromUserDomain,
		notFound:   repository.ErrUserNotFound,
	}
}
