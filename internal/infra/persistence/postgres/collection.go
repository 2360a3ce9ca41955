package postgres

import (
	"context"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// collection is the generic storage half of the resource handler factory: one
// implementation of create/get/list/patch/delete shared by every entity type,
// so the behavior (and the error surface) cannot drift between resources.
type collection[E any, M any] struct {
	db         *gorm.DB
	opts       query.Options
	columns    map[string]string // exposed field -> column
	preloads   []string
	toDomain   func(*M) *E
	fromDomain func(*E) *M
	notFound   error // per-entity sentinel, e.g. repository.ErrProductNotFound
}

func (c *collection[E, M]) QueryOptions() query.Options {
	return c.opts
}

func (c *collection[E, M]) model(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(new(M))
}

func (c *collection[E, M]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, preload := range c.preloads {
		db = db.Preload(preload)
	}

	return db
}

// Create inserts the entity and copies generated values (id, timestamps)
// back onto it.
func (c *collection[E, M]) Create(ctx context.Context, item *E) error {
	m := c.fromDomain(item)

	if err := c.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("record already exists")
		}
		if isNotNullConstraintViolation(err) || isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing or invalid reference values")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create record")
	}

	*item = *c.toDomain(m)

	return nil
}

func (c *collection[E, M]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	var m M
	err := c.withPreloads(c.model(ctx)).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.notFound
		}

		return nil, errors.Wrap(err, "failed to find record by id")
	}

	return c.toDomain(&m), nil
}

// List applies a translated plan plus any implicit parent filters merged from
// the route. Total counts the collection scoped only by the implicit parent
// filter, so pagination UIs see the full collection size rather than the
// filtered page universe.
func (c *collection[E, M]) List(ctx context.Context, plan *query.Plan, extra map[string]any) (*repository.Page[E], error) {
	scope := c.model(ctx)
	for column, value := range extra {
		scope = scope.Where(column+" = ?", value)
	}

	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count records")
	}

	db := applyFilters(scope, plan, c.columns)
	db = applyShape(db, plan, c.columns)

	var models []*M
	if err := c.withPreloads(db).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}

	items := make([]*E, 0, len(models))
	for _, m := range models {
		items = append(items, c.toDomain(m))
	}

	return &repository.Page[E]{Items: items, Total: total}, nil
}

// Patch validates the patch keys against the exposed field set, applies the
// update and returns the refreshed entity.
func (c *collection[E, M]) Patch(ctx context.Context, id uuid.UUID, patch map[string]any) (*E, error) {
	if len(patch) == 0 {
		return nil, domainerrors.ErrBadRequest.WrapMessage("empty patch")
	}

	updates := make(map[string]any, len(patch))
	for field, value := range patch {
		column, ok := c.columns[field]
		if !ok {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown field: " + field)
		}
		updates[column] = value
	}

	result := c.model(ctx).Where("id = ?", id).Updates(updates)
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, domainerrors.ErrConflict.WrapMessage("record already exists")
		}
		if isNotNullConstraintViolation(err) {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("missing required values")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update record")
	}
	if result.RowsAffected == 0 {
		return nil, c.notFound
	}

	return c.FindByID(ctx, id)
}

func (c *collection[E, M]) Delete(ctx context.Context, id uuid.UUID) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete record")
	}
	if result.RowsAffected == 0 {
		return c.notFound
	}

	return nil
}
