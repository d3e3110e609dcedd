package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// InsertBuilder builds INSERT statements
type InsertBuilder struct {
	state
	table   string
	rows    rows
	columns columns
}

// Insert starts an INSERT into table.
func Insert(table string) *InsertBuilder {
	b := &InsertBuilder{
		table:   table,
		columns: columns{ref: table},
	}
	b.record(sqlgen.CheckIdentifier(table))
	return b
}

// Values appends rows. Keys are column names; a row lacking a column that
// another row sets receives DEFAULT for it.
func (b *InsertBuilder) Values(rows ...map[string]any) *InsertBuilder {
	for _, row := range rows {
		b.record(b.rows.add(row))
	}
	return b
}

// Column adds a RETURNING column.
func (b *InsertBuilder) Column(alias, column string) *InsertBuilder {
	b.record(b.columns.column(alias, column))
	return b
}

// Expr adds a RETURNING expression.
func (b *InsertBuilder) Expr(alias string, expr sqlgen.Fragment) *InsertBuilder {
	b.record(b.columns.expr(alias, expr))
	return b
}

// Build renders the statement. It fails without rows or without columns.
func (b *InsertBuilder) Build() (sqlgen.Fragment, error) {
	if b.err != nil {
		return sqlgen.Fragment{}, b.err
	}
	if len(b.rows.items) == 0 {
		return sqlgen.Fragment{}, &sqlgen.PreconditionError{Statement: "INSERT", Clause: "row"}
	}

	names := b.rows.columnNames()
	if len(names) == 0 {
		return sqlgen.Fragment{}, &sqlgen.PreconditionError{Statement: "INSERT", Clause: "column"}
	}

	parts := []sqlgen.Fragment{
		sqlgen.Raw(`INSERT INTO "` + b.table + `" `),
		b.rows.render(names),
	}
	if r, ok := b.columns.returning(); ok {
		parts = append(parts, r)
	}

	return finish(parts), nil
}
