// Package handler contains the HTTP handlers for the application.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Resource is the generic CRUD handler: every entity exposed this way shares
// the same five operations and the same response envelope, so adding a
// resource is wiring a collection plus a view, not writing handlers.
type Resource[E any] struct {
	coll repository.Collection[E]
	opts ResourceOptions[E]
}

// ResourceOptions configures the per-entity seams of a Resource.
type ResourceOptions[E any] struct {
	// Parse binds and validates the create request body into a new entity.
	Parse func(c echo.Context) (*E, error)
	// View maps an entity to its response shape.
	View func(*E) any
	// Nested maps route params to filter columns, turning a parent id in the
	// path into an implicit equality filter on list (e.g. "id" →
	// "product_id" under /products/:id/reviews).
	Nested map[string]string
	// DeleteFn overrides the plain row delete, for resources whose removal
	// cascades (products delete their reviews and images).
	DeleteFn func(ctx context.Context, id uuid.UUID) error
}

// NewResource builds the generic handler for one collection.
func NewResource[E any](coll repository.Collection[E], opts ResourceOptions[E]) *Resource[E] {
	if opts.View == nil {
		opts.View = func(item *E) any { return item }
	}

	return &Resource[E]{coll: coll, opts: opts}
}

// CreateOne handles POST /resource.
func (r *Resource[E]) CreateOne(c echo.Context) error {
	item, err := r.opts.Parse(c)
	if err != nil {
		return err
	}

	if err := r.coll.Create(c.Request().Context(), item); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, r.opts.View(item))
}

// GetOne handles GET /resource/:id.
func (r *Resource[E]) GetOne(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	item, err := r.coll.FindByID(c.Request().Context(), id)
	if err != nil {
		return r.translateNotFound(err)
	}

	return response.Success(c, http.StatusOK, r.opts.View(item))
}

// GetMany handles GET /resource and its nested variants. The query string is
// translated into a plan against the collection's whitelist; parent ids from
// the route merge in as equality filters.
func (r *Resource[E]) GetMany(c echo.Context) error {
	plan, err := query.Translate(c.QueryParams(), r.coll.QueryOptions())
	if err != nil {
		return err
	}

	extra, err := r.nestedFilters(c)
	if err != nil {
		return err
	}

	page, err := r.coll.List(c.Request().Context(), plan, extra)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]any, 0, len(page.Items))
	for _, item := range page.Items {
		views = append(views, r.opts.View(item))
	}

	return response.List(c, http.StatusOK, views, response.NewMeta(plan.Page, plan.Limit, page.Total))
}

// UpdateOne handles PATCH /resource/:id. The body is a partial column map;
// the collection validates every key against its whitelist.
func (r *Resource[E]) UpdateOne(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	// Decode the body directly rather than through echo's binder: binding a
	// map folds path params into it, and "id" is not a patchable column.
	var patch map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return domainerrors.ErrBadRequest.WithDetails("request body must be a JSON object")
	}
	if len(patch) == 0 {
		return domainerrors.ErrValidationFailed.WithDetails("no fields to update")
	}

	item, err := r.coll.Patch(c.Request().Context(), id, patch)
	if err != nil {
		return r.translateNotFound(err)
	}

	return response.Success(c, http.StatusOK, r.opts.View(item))
}

// DeleteOne handles DELETE /resource/:id.
func (r *Resource[E]) DeleteOne(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	deleteFn := r.opts.DeleteFn
	if deleteFn == nil {
		deleteFn = func(ctx context.Context, id uuid.UUID) error {
			return r.coll.Delete(ctx, id)
		}
	}

	if err := deleteFn(c.Request().Context(), id); err != nil {
		return r.translateNotFound(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (r *Resource[E]) nestedFilters(c echo.Context) (map[string]any, error) {
	if len(r.opts.Nested) == 0 {
		return nil, nil
	}

	extra := make(map[string]any, len(r.opts.Nested))
	for param, column := range r.opts.Nested {
		raw := c.Param(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domainerrors.ErrBadRequest.WithDetails("invalid " + param)
		}
		extra[column] = id
	}

	return extra, nil
}

func (r *Resource[E]) translateNotFound(err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRecordNotFound):
		return domainerrors.ErrNotFound
	}

	return errors.WithStack(err)
}

// pathID parses a uuid path parameter.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrBadRequest.WithDetails("invalid " + name)
	}

	return id, nil
}

// principalFrom returns the authenticated principal attached by the auth
// middleware.
func principalFrom(c echo.Context) (deliverycontext.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c.Request().Context())
	if !ok {
		return deliverycontext.Principal{}, domainerrors.ErrUnauthenticated
	}

	return principal, nil
}
