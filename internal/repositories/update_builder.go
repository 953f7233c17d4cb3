package repositories

import (
	"fmt"
	"strings"
)

// UpdateBuilder collects column assignments and renders one parameterized
// UPDATE. String concatenation never touches values; only column names
// (fixed by callers) reach the SQL text.
type UpdateBuilder struct {
	columns []string
	args    []interface{}
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{}
}

func (b *UpdateBuilder) Set(column string, value interface{}) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.args = append(b.args, value)
	return b
}

// Empty reports whether no assignments have been added.
func (b *UpdateBuilder) Empty() bool {
	return len(b.columns) == 0
}

// Build renders the UPDATE statement. updated_at is always bumped.
func (b *UpdateBuilder) Build(table, idColumn string, id interface{}) (string, []interface{}) {
	sets := make([]string, 0, len(b.columns)+1)
	for i, col := range b.columns {
		sets = append(sets, fmt.Sprintf("%s=$%d", col, i+1))
	}
	sets = append(sets, "updated_at=CURRENT_TIMESTAMP")

	args := append(append([]interface{}{}, b.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d",
		table, strings.Join(sets, ", "), idColumn, len(args))
	return query, args
}
