package repository

import (
	"context"

	"storefront/internal/domain/query"

	"github.com/google/uuid"
)

// Page is the result of a plan-driven list: one page of entities plus the
// unfiltered total count the pagination meta reports.
type Page[E any] struct {
	Items []*E
	Total int64
}

// Collection is a generic accessor bound to one entity type. It is the
// storage half of the resource handler factory: every entity exposed through
// generic CRUD (products, users, orders, reviews, payment transactions) is
// served by the same five operations, which is what keeps the response
// envelope uniform across resources.
type Collection[E any] interface {
	// QueryOptions returns the translator tunables of this collection
	// (search field, default page size, field whitelist).
	QueryOptions() query.Options

	Create(ctx context.Context, item *E) error
	FindByID(ctx context.Context, id uuid.UUID) (*E, error)
	// List applies a translated plan. extra carries implicit equality
	// filters merged from the route (nested-resource parent ids).
	List(ctx context.Context, plan *query.Plan, extra map[string]any) (*Page[E], error)
	// Patch re-validates and applies a partial update, returning the
	// updated entity or ErrRecordNotFound.
	Patch(ctx context.Context, id uuid.UUID, patch map[string]any) (*E, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
