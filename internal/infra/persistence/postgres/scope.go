package postgres

import (
	"strings"

	"storefront/internal/domain/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sqlOperator maps plan operators onto SQL comparison operators. The set is
// closed; anything else the translator produces is a bug, so equality is the
// safe fallback.
func sqlOperator(op query.Operator) string {
	switch op {
	case query.OpGt:
		return ">"
	case query.OpGte:
		return ">="
	case query.OpLt:
		return "<"
	case query.OpLte:
		return "<="
	default:
		return "="
	}
}

// escapeLike escapes LIKE wildcards in a keyword pattern so user input only
// ever matches as a literal substring.
func escapeLike(pattern string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return replacer.Replace(pattern)
}

// applyFilters binds the plan's predicate and keyword clauses onto a gorm
// query. columns maps exposed field names onto column names; the translator
// has already rejected anything outside the whitelist.
func applyFilters(db *gorm.DB, plan *query.Plan, columns map[string]string) *gorm.DB {
	if plan.Keyword != nil {
		column := columnFor(plan.Keyword.Field, columns)
		db = db.Where(column+" ILIKE ?", "%"+escapeLike(plan.Keyword.Pattern)+"%")
	}

	for _, filter := range plan.Filters {
		column := columnFor(filter.Field, columns)
		db = db.Where(column+" "+sqlOperator(filter.Op)+" ?", filter.Value)
	}

	return db
}

// applyShape binds sort order, projection and the pagination window.
func applyShape(db *gorm.DB, plan *query.Plan, columns map[string]string) *gorm.DB {
	for _, key := range plan.Sort {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: columnFor(key.Field, columns)},
			Desc:   key.Desc,
		})
	}

	if len(plan.Fields) > 0 {
		selected := make([]string, 0, len(plan.Fields)+1)
		// The primary key always rides along so associations and entity
		// mapping stay intact under projection.
		selected = append(selected, "id")
		for _, field := range plan.Fields {
			selected = append(selected, columnFor(field, columns))
		}
		db = db.Select(selected)
	}

	return db.Offset(plan.Skip()).Limit(plan.Limit)
}

func columnFor(field string, columns map[string]string) string {
	if column, ok := columns[field]; ok {
		return column
	}

	return field
}
