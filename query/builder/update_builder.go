package builder

import (
	"sort"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// UpdateBuilder builds UPDATE statements
type UpdateBuilder struct {
	state
	table   string
	set     assignments
	where   where
	columns columns
}

// Update starts an UPDATE of table.
func Update(table string) *UpdateBuilder {
	b := &UpdateBuilder{
		table:   table,
		where:   where{ref: table},
		columns: columns{ref: table},
	}
	b.record(sqlgen.CheckIdentifier(table))
	return b
}

// Set assigns a column. A sqlgen.Fragment value is used verbatim, so
// `Set("count", sqlgen.Raw(`"count" + 1`))` works; any other value is bound.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.record(b.set.set(column, value))
	return b
}

// SetValues assigns every entry of values, in column order.
func (b *UpdateBuilder) SetValues(values map[string]any) *UpdateBuilder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

// Where adds a predicate.
func (b *UpdateBuilder) Where(pred sqlgen.Fragment) *UpdateBuilder {
	b.where.add(pred)
	return b
}

// WhereValues adds one equality predicate per entry.
func (b *UpdateBuilder) WhereValues(values map[string]any) *UpdateBuilder {
	b.record(b.where.values(values))
	return b
}

// Column adds a RETURNING column.
func (b *UpdateBuilder) Column(alias, column string) *UpdateBuilder {
	b.record(b.columns.column(alias, column))
	return b
}

// Expr adds a RETURNING expression.
func (b *UpdateBuilder) Expr(alias string, expr sqlgen.Fragment) *UpdateBuilder {
	b.record(b.columns.expr(alias, expr))
	return b
}

// Build renders the statement. It fails without any assignment.
func (b *UpdateBuilder) Build() (sqlgen.Fragment, error) {
	if b.err != nil {
		return sqlgen.Fragment{}, b.err
	}
	if b.set.len() == 0 {
		return sqlgen.Fragment{}, &sqlgen.PreconditionError{Statement: "UPDATE", Clause: "assignment"}
	}

	parts := []sqlgen.Fragment{
		sqlgen.Raw(`UPDATE "` + b.table + `" SET `),
		b.set.render(),
	}
	if w, ok := b.where.render(); ok {
		parts = append(parts, sqlgen.Raw(" "), w)
	}
	if r, ok := b.columns.returning(); ok {
		parts = append(parts, r)
	}

	return finish(parts), nil
}
