package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// DeleteBuilder builds DELETE statements. It never renders a DELETE
// without a WHERE clause.
type DeleteBuilder struct {
	state
	table   string
	where   where
	columns columns
}

// Delete starts a DELETE from table.
func Delete(table string) *DeleteBuilder {
	b := &DeleteBuilder{
		table:   table,
		where:   where{ref: table},
		columns: columns{ref: table},
	}
	b.record(sqlgen.CheckIdentifier(table))
	return b
}

// Where adds a predicate.
func (b *DeleteBuilder) Where(pred sqlgen.Fragment) *DeleteBuilder {
	b.where.add(pred)
	return b
}

// WhereValues adds one equality predicate per entry.
func (b *DeleteBuilder) WhereValues(values map[string]any) *DeleteBuilder {
	b.record(b.where.values(values))
	return b
}

// Column adds a RETURNING column.
func (b *DeleteBuilder) Column(alias, column string) *DeleteBuilder {
	b.record(b.columns.column(alias, column))
	return b
}

// Expr adds a RETURNING expression.
func (b *DeleteBuilder) Expr(alias string, expr sqlgen.Fragment) *DeleteBuilder {
	b.record(b.columns.expr(alias, expr))
	return b
}

// Build renders the statement. It fails without any predicate.
func (b *DeleteBuilder) Build() (sqlgen.Fragment, error) {
	if b.err != nil {
		return sqlgen.Fragment{}, b.err
	}

	w, ok := b.where.render()
	if !ok {
		return sqlgen.Fragment{}, &sqlgen.PreconditionError{Statement: "DELETE", Clause: "WHERE predicate"}
	}

	parts := []sqlgen.Fragment{
		sqlgen.Raw(`DELETE FROM "` + b.table + `" `),
		w,
	}
	if r, ok := b.columns.returning(); ok {
		parts = append(parts, r)
	}

	return finish(parts), nil
}
