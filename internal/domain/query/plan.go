// Package query implements the request-to-query translation engine. It turns
// raw request parameters into an immutable Plan (filter predicate, sort order,
// field projection, pagination window, keyword search) that the persistence
// layer applies against the store. Translation is a pure function; it owns no
// storage and performs no I/O.
package query

// Operator is a comparison operator in a filter predicate.
type Operator string

const (
	OpEq  Operator = "="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
)

// Filter is a single (field, op, value) predicate clause. Clauses are combined
// with AND.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Keyword is a case-insensitive substring search against one field.
type Keyword struct {
	Field   string
	Pattern string
}

// Plan is the translated query. It is built once per request and treated as
// immutable afterwards.
type Plan struct {
	Keyword *Keyword
	Filters []Filter
	Sort    []SortKey
	Fields  []string // include-only projection; empty means all exposed fields
	Page    int      // 1-based
	Limit   int
}

// Skip is the pagination offset. Page and Limit are normalized at translation
// time, so the result is never negative.
func (p *Plan) Skip() int {
	return (p.Page - 1) * p.Limit
}
