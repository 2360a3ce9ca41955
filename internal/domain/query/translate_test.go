package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Defaults(t *testing.T) {
	plan, err := Translate(url.Values{}, Options{})

	require.NoError(t, err)
	assert.Nil(t, plan.Keyword)
	assert.Empty(t, plan.Filters)
	assert.Equal(t, []SortKey{{Field: "created_at", Desc: true}}, plan.Sort)
	assert.Empty(t, plan.Fields)
	assert.Equal(t, 1, plan.Page)
	assert.Equal(t, DefaultLimit, plan.Limit)
	assert.Equal(t, 0, plan.Skip())
}

func TestTranslate_Keyword(t *testing.T) {
	raw := url.Values{"keyword": {"macbook"}}

	plan, err := Translate(raw, Options{})
	require.NoError(t, err)
	require.NotNil(t, plan.Keyword)
	assert.Equal(t, "name", plan.Keyword.Field)
	assert.Equal(t, "macbook", plan.Keyword.Pattern)

	plan, err = Translate(raw, Options{SearchField: "title"})
	require.NoError(t, err)
	assert.Equal(t, "title", plan.Keyword.Field)
}

func TestTranslate_ComparisonFilters(t *testing.T) {
	raw, err := url.ParseQuery("price[gte]=100&price[lte]=500")
	require.NoError(t, err)

	plan, err := Translate(raw, Options{})
	require.NoError(t, err)

	// The predicate must match exactly 100 <= price <= 500.
	require.Len(t, plan.Filters, 2)
	assert.Contains(t, plan.Filters, Filter{Field: "price", Op: OpGte, Value: int64(100)})
	assert.Contains(t, plan.Filters, Filter{Field: "price", Op: OpLte, Value: int64(500)})

	matches := func(price int64) bool {
		for _, f := range plan.Filters {
			bound := f.Value.(int64)
			switch f.Op {
			case OpGte:
				if price < bound {
					return false
				}
			case OpLte:
				if price > bound {
					return false
				}
			default:
				t.Fatalf("unexpected operator %q", f.Op)
			}
		}

		return true
	}

	// Seeded boundary prices straddling both limits.
	assert.False(t, matches(99))
	assert.True(t, matches(100))
	assert.True(t, matches(500))
	assert.False(t, matches(501))
}

func TestTranslate_EqualityAndUnrecognizedOperator(t *testing.T) {
	raw, err := url.ParseQuery("category=laptops&stock[within]=5")
	require.NoError(t, err)

	plan, err := Translate(raw, Options{})
	require.NoError(t, err)

	// Unrecognized bracketed operators degrade to equality on the base field.
	assert.Contains(t, plan.Filters, Filter{Field: "category", Op: OpEq, Value: "laptops"})
	assert.Contains(t, plan.Filters, Filter{Field: "stock", Op: OpEq, Value: int64(5)})
}

func TestTranslate_MalformedFilterFailsClosed(t *testing.T) {
	for _, key := range []string{"price[gte", "[gte]"} {
		raw := url.Values{key: {"100"}}

		plan, err := Translate(raw, Options{})
		assert.Error(t, err, "key %q", key)
		assert.Nil(t, plan)
	}
}

func TestTranslate_FieldWhitelistFailsClosed(t *testing.T) {
	opts := Options{Fields: map[string]struct{}{"price": {}, "name": {}}}

	_, err := Translate(url.Values{"password_hash": {"x"}}, opts)
	assert.Error(t, err)

	_, err = Translate(url.Values{"sort": {"-secret"}}, opts)
	assert.Error(t, err)

	_, err = Translate(url.Values{"fields": {"name,secret"}}, opts)
	assert.Error(t, err)

	plan, err := Translate(url.Values{"price[gt]": {"10"}, "sort": {"-price,name"}, "fields": {"name,price"}}, opts)
	require.NoError(t, err)
	assert.Len(t, plan.Filters, 1)
}

func TestTranslate_Sort(t *testing.T) {
	plan, err := Translate(url.Values{"sort": {"-price,name"}}, Options{})
	require.NoError(t, err)

	// price descending is the primary key, name ascending the tiebreak.
	assert.Equal(t, []SortKey{{Field: "price", Desc: true}, {Field: "name"}}, plan.Sort)
}

func TestTranslate_Projection(t *testing.T) {
	plan, err := Translate(url.Values{"fields": {"name, price"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, plan.Fields)
}

func TestTranslate_PaginationInvariant(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"explicit", "3", "25", 3, 25},
		{"first page", "1", "10", 1, 10},
		{"defaults", "", "", 1, DefaultLimit},
		{"non-numeric", "abc", "xyz", 1, DefaultLimit},
		{"negative", "-2", "-5", 1, DefaultLimit},
		{"zero", "0", "0", 1, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := url.Values{}
			if tt.page != "" {
				raw.Set("page", tt.page)
			}
			if tt.limit != "" {
				raw.Set("limit", tt.limit)
			}

			plan, err := Translate(raw, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, plan.Page)
			assert.Equal(t, tt.wantLimit, plan.Limit)
			assert.Equal(t, (tt.wantPage-1)*tt.wantLimit, plan.Skip())
			assert.GreaterOrEqual(t, plan.Skip(), 0)
		})
	}
}

func TestTranslate_HandlerDefaultLimit(t *testing.T) {
	plan, err := Translate(url.Values{}, Options{DefaultLimit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, plan.Limit)

	// An explicit limit still wins over the handler default.
	plan, err = Translate(url.Values{"limit": {"50"}}, Options{DefaultLimit: 10})
	require.NoError(t, err)
	assert.Equal(t, 50, plan.Limit)
}

func TestTranslate_ValueCoercion(t *testing.T) {
	raw, err := url.ParseQuery("stock[gt]=0&rating[gte]=4.5&category=phones")
	require.NoError(t, err)

	plan, err := Translate(raw, Options{})
	require.NoError(t, err)

	assert.Contains(t, plan.Filters, Filter{Field: "stock", Op: OpGt, Value: int64(0)})
	assert.Contains(t, plan.Filters, Filter{Field: "rating", Op: OpGte, Value: 4.5})
	assert.Contains(t, plan.Filters, Filter{Field: "category", Op: OpEq, Value: "phones"})
}
