package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	domainerrors "storefront/internal/domain/errors"
)

// Default tunables, overridable per collection through Options.
const (
	DefaultLimit       = 100
	DefaultSearchField = "name"
	DefaultSortField   = "created_at"
)

// reserved are the parameter names consumed by the translator itself; every
// other parameter is treated as a field filter.
var reserved = map[string]struct{}{
	"keyword": {},
	"page":    {},
	"sort":    {},
	"limit":   {},
	"fields":  {},
}

// comparison maps the operator suffixes embedded in parameter keys
// (price[gte]=100) to plan operators. A bracketed suffix outside this set
// falls back to equality on the base field.
var comparison = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Options carries the per-collection tunables of the translator. They are
// injected at construction, never read from the environment.
type Options struct {
	// SearchField is the column the keyword search matches against.
	SearchField string
	// DefaultLimit is the page size used when the request does not carry a
	// valid limit.
	DefaultLimit int
	// Fields whitelists the filterable/sortable/projectable field names for
	// the collection. A nil map allows any field name (used by tests); a
	// collection-bound translator always sets it, so a filter can never name
	// an arbitrary column.
	Fields map[string]struct{}
}

func (o Options) searchField() string {
	if o.SearchField == "" {
		return DefaultSearchField
	}

	return o.SearchField
}

func (o Options) defaultLimit() int {
	if o.DefaultLimit <= 0 {
		return DefaultLimit
	}

	return o.DefaultLimit
}

func (o Options) allows(field string) bool {
	if o.Fields == nil {
		return true
	}
	_, ok := o.Fields[field]

	return ok
}

// Translate converts raw request parameters into a Plan. It fails closed: a
// filter clause that cannot be parsed, or one naming a field outside the
// collection's whitelist, rejects the whole request with a validation error
// rather than silently returning a broader result set than the caller asked
// for.
func Translate(raw url.Values, opts Options) (*Plan, error) {
	plan := &Plan{
		Page:  parsePositive(raw.Get("page"), 1),
		Limit: parsePositive(raw.Get("limit"), opts.defaultLimit()),
	}

	if keyword := raw.Get("keyword"); keyword != "" {
		plan.Keyword = &Keyword{Field: opts.searchField(), Pattern: keyword}
	}

	filters, err := translateFilters(raw, opts)
	if err != nil {
		return nil, err
	}
	plan.Filters = filters

	sortKeys, err := translateSort(raw.Get("sort"), opts)
	if err != nil {
		return nil, err
	}
	plan.Sort = sortKeys

	fields, err := translateProjection(raw.Get("fields"), opts)
	if err != nil {
		return nil, err
	}
	plan.Fields = fields

	return plan, nil
}

func translateFilters(raw url.Values, opts Options) ([]Filter, error) {
	// Deterministic clause order regardless of map iteration.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if _, ok := reserved[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var filters []Filter
	for _, key := range keys {
		field, op, err := parseFilterKey(key)
		if err != nil {
			return nil, err
		}
		if !opts.allows(field) {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown filter field: " + field)
		}

		for _, value := range raw[key] {
			filters = append(filters, Filter{Field: field, Op: op, Value: coerce(value)})
		}
	}

	return filters, nil
}

// parseFilterKey splits "price[gte]" into ("price", OpGte). A bare key is an
// equality filter; an unrecognized bracketed suffix degrades to equality on
// the base field; an unbalanced bracket is rejected.
func parseFilterKey(key string) (string, Operator, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", domainerrors.ErrValidationFailed.WrapMessage("malformed filter parameter: " + key)
	}

	field := key[:open]
	suffix := key[open+1 : len(key)-1]
	if op, ok := comparison[suffix]; ok {
		return field, op, nil
	}

	return field, OpEq, nil
}

func translateSort(raw string, opts Options) ([]SortKey, error) {
	if raw == "" {
		return []SortKey{{Field: DefaultSortField, Desc: true}}, nil
	}

	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key := SortKey{Field: part}
		if strings.HasPrefix(part, "-") {
			key = SortKey{Field: part[1:], Desc: true}
		}
		if key.Field == "" || !opts.allows(key.Field) {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown sort field: " + part)
		}

		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return []SortKey{{Field: DefaultSortField, Desc: true}}, nil
	}

	return keys, nil
}

func translateProjection(raw string, opts Options) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var fields []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !opts.allows(part) {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown projection field: " + part)
		}
		fields = append(fields, part)
	}

	return fields, nil
}

// parsePositive parses a 1-based positive integer, falling back to the
// default on absent, non-numeric or non-positive input.
func parsePositive(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

// coerce types a filter value so the store compares numbers numerically and
// booleans as booleans instead of as text.
func coerce(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}

	return raw
}
