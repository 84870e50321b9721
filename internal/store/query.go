package store

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
//
// Example:
//
//	input:    "SELECT current_exp FROM progression_states WHERE slot_id = ?"
//	SQLite:   "SELECT current_exp FROM progression_states WHERE slot_id = ?"
//	Postgres: "SELECT current_exp FROM progression_states WHERE slot_id = $1"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1

	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}

	return result.String()
}

// BuildUpsert returns an INSERT that updates every non-key column when a
// row with the same key already exists. Both SQLite and PostgreSQL accept
// the ON CONFLICT ... DO UPDATE form.
func (qb *QueryBuilder) BuildUpsert(table, key string, columns []string) string {
	all := append([]string{key}, columns...)

	placeholders := make([]string, len(all))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	updates := make([]string, len(columns))
	for i, col := range columns {
		updates[i] = col + " = excluded." + col
	}

	query := "INSERT INTO " + table + " (" + strings.Join(all, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") ON CONFLICT (" + key + ") DO UPDATE SET " +
		strings.Join(updates, ", ")

	return qb.Build(query)
}
