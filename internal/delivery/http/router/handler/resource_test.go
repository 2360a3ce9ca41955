package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductCollection is an in-memory Collection[entity.Product] that
// records the plan and extra filters it was asked to list with.
type fakeProductCollection struct {
	items     map[uuid.UUID]*entity.Product
	lastPlan  *query.Plan
	lastExtra map[string]any
	lastPatch map[string]any
}

func newFakeProductCollection(items ...*entity.Product) *fakeProductCollection {
	coll := &fakeProductCollection{items: make(map[uuid.UUID]*entity.Product)}
	for _, item := range items {
		coll.items[item.ID] = item
	}

	return coll
}

func (f *fakeProductCollection) QueryOptions() query.Options {
	return query.Options{
		SearchField:  "name",
		DefaultLimit: 25,
		Fields: map[string]struct{}{
			"name": {}, "category": {}, "price": {}, "stock": {}, "product_id": {},
		},
	}
}

func (f *fakeProductCollection) Create(_ context.Context, item *entity.Product) error {
	item.ID = uuid.New()
	f.items[item.ID] = item

	return nil
}

func (f *fakeProductCollection) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return item, nil
}

func (f *fakeProductCollection) List(_ context.Context, plan *query.Plan, extra map[string]any) (*repository.Page[entity.Product], error) {
	f.lastPlan = plan
	f.lastExtra = extra

	items := make([]*entity.Product, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}

	return &repository.Page[entity.Product]{Items: items, Total: int64(len(items))}, nil
}

func (f *fakeProductCollection) Patch(_ context.Context, id uuid.UUID, patch map[string]any) (*entity.Product, error) {
	f.lastPatch = patch

	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	if name, ok := patch["name"].(string); ok {
		item.Name = name
	}

	return item, nil
}

func (f *fakeProductCollection) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.items, id)

	return nil
}

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestResourceGetManyTranslatesQueryString(t *testing.T) {
	coll := newFakeProductCollection(&entity.Product{ID: uuid.New(), Name: "lamp"})
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{View: toProductView})

	c, rec := newTestContext(t, http.MethodGet, "/products?category=lighting&price[gte]=100&keyword=lamp&page=2&limit=10", "")

	require.NoError(t, resource.GetMany(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, coll.lastPlan)
	assert.Equal(t, 2, coll.lastPlan.Page)
	assert.Equal(t, 10, coll.lastPlan.Limit)
	require.NotNil(t, coll.lastPlan.Keyword)
	assert.Equal(t, "lamp", coll.lastPlan.Keyword.Pattern)

	var body struct {
		Success bool `json:"success"`
		Meta    struct {
			Page     int   `json:"page"`
			PageSize int   `json:"pageSize"`
			Total    int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 10, body.Meta.PageSize)
	assert.Equal(t, int64(1), body.Meta.Total)
}

func TestResourceGetManyRejectsUnknownFilterField(t *testing.T) {
	coll := newFakeProductCollection()
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{View: toProductView})

	c, _ := newTestContext(t, http.MethodGet, "/products?password_hash=x", "")

	err := resource.GetMany(c)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestResourceGetManyMergesNestedParentFilter(t *testing.T) {
	coll := newFakeProductCollection()
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{
		View:   toProductView,
		Nested: map[string]string{"productId": "product_id"},
	})

	parentID := uuid.New()
	c, _ := newTestContext(t, http.MethodGet, "/products/"+parentID.String()+"/reviews", "")
	c.SetParamNames("productId")
	c.SetParamValues(parentID.String())

	require.NoError(t, resource.GetMany(c))
	assert.Equal(t, parentID, coll.lastExtra["product_id"])
}

func TestResourceGetManyRejectsMalformedNestedID(t *testing.T) {
	coll := newFakeProductCollection()
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{
		Nested: map[string]string{"productId": "product_id"},
	})

	c, _ := newTestContext(t, http.MethodGet, "/products/not-a-uuid/reviews", "")
	c.SetParamNames("productId")
	c.SetParamValues("not-a-uuid")

	err := resource.GetMany(c)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestResourceGetOneNotFound(t *testing.T) {
	coll := newFakeProductCollection()
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{View: toProductView})

	c, _ := newTestContext(t, http.MethodGet, "/products/x", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := resource.GetOne(c)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestResourceUpdateOneRejectsEmptyPatch(t *testing.T) {
	coll := newFakeProductCollection()
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{View: toProductView})

	c, _ := newTestContext(t, http.MethodPatch, "/products/x", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := resource.UpdateOne(c)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestResourceUpdateOneAppliesPatch(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "old"}
	coll := newFakeProductCollection(product)
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{View: toProductView})

	c, rec := newTestContext(t, http.MethodPatch, "/products/x", `{"name":"new"}`)
	c.SetParamNames("id")
	c.SetParamValues(product.ID.String())

	require.NoError(t, resource.UpdateOne(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", product.Name)
	// The map that reaches the collection carries body fields only, never the
	// route's :id — no column whitelist admits "id".
	assert.Equal(t, map[string]any{"name": "new"}, coll.lastPatch)
}

func TestResourceDeleteOneUsesOverride(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "doomed"}
	coll := newFakeProductCollection(product)

	var deletedID uuid.UUID
	resource := NewResource[entity.Product](coll, ResourceOptions[entity.Product]{
		DeleteFn: func(_ context.Context, id uuid.UUID) error {
			deletedID = id

			return nil
		},
	})

	c, rec := newTestContext(t, http.MethodDelete, "/products/x", "")
	c.SetParamNames("id")
	c.SetParamValues(product.ID.String())

	require.NoError(t, resource.DeleteOne(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, product.ID, deletedID)
}
