package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// SelectBuilder builds SELECT statements
type SelectBuilder struct {
	state
	table   string
	ref     string
	columns columns
	where   where
	joins   joins
	order   ordering
	paging  paging
}

// Select starts a SELECT from table. Columns, predicates and ordering given
// by name are qualified with alias, or with table when alias is empty.
func Select(table, alias string) *SelectBuilder {
	ref := alias
	if ref == "" {
		ref = table
	}

	b := &SelectBuilder{
		table:   table,
		ref:     ref,
		columns: columns{ref: ref},
		where:   where{ref: ref},
		order:   ordering{ref: ref},
	}
	b.record(sqlgen.CheckIdentifiers(table, ref))
	return b
}

// Reference returns the name columns are qualified with.
func (b *SelectBuilder) Reference() string {
	return b.ref
}

// Column adds `"<ref>"."<column>" AS "<alias>"`.
func (b *SelectBuilder) Column(alias, column string) *SelectBuilder {
	b.record(b.columns.column(alias, column))
	return b
}

// Expr adds `<expr> AS "<alias>"`.
func (b *SelectBuilder) Expr(alias string, expr sqlgen.Fragment) *SelectBuilder {
	b.record(b.columns.expr(alias, expr))
	return b
}

// Where adds a predicate.
func (b *SelectBuilder) Where(pred sqlgen.Fragment) *SelectBuilder {
	b.where.add(pred)
	return b
}

// WhereValues adds one equality predicate per entry.
func (b *SelectBuilder) WhereValues(values map[string]any) *SelectBuilder {
	b.record(b.where.values(values))
	return b
}

// LeftJoin adds `LEFT JOIN "<table>" AS "<alias>" ON <condition>`.
func (b *SelectBuilder) LeftJoin(table, alias string, condition sqlgen.Fragment) *SelectBuilder {
	b.record(b.joins.add(LeftJoin, table, alias, condition))
	return b
}

// InnerJoin adds `INNER JOIN "<table>" AS "<alias>" ON <condition>`.
func (b *SelectBuilder) InnerJoin(table, alias string, condition sqlgen.Fragment) *SelectBuilder {
	b.record(b.joins.add(InnerJoin, table, alias, condition))
	return b
}

// OrderBy orders by a column of the statement reference.
func (b *SelectBuilder) OrderBy(column string, dir Direction) *SelectBuilder {
	b.record(b.order.column(column, dir))
	return b
}

// OrderByExpr orders by an arbitrary expression.
func (b *SelectBuilder) OrderByExpr(expr sqlgen.Fragment, dir Direction) *SelectBuilder {
	b.order.expr(expr, dir)
	return b
}

// Limit sets the LIMIT value. A later call replaces an earlier one.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.paging.setLimit(n)
	return b
}

// Offset sets the OFFSET value. A later call replaces an earlier one.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.paging.setOffset(n)
	return b
}

// Build renders the statement. It fails without any column.
func (b *SelectBuilder) Build() (sqlgen.Fragment, error) {
	if b.err != nil {
		return sqlgen.Fragment{}, b.err
	}

	cols, ok := b.columns.render()
	if !ok {
		return sqlgen.Fragment{}, &sqlgen.PreconditionError{Statement: "SELECT", Clause: "column"}
	}

	parts := []sqlgen.Fragment{
		sqlgen.Raw("SELECT "),
		cols,
		sqlgen.Raw(` FROM "` + b.table + `" AS "` + b.ref + `"`),
	}
	if j, ok := b.joins.render(); ok {
		parts = append(parts, sqlgen.Raw(" "), j)
	}
	if w, ok := b.where.render(); ok {
		parts = append(parts, sqlgen.Raw(" "), w)
	}
	if o, ok := b.order.render(); ok {
		parts = append(parts, sqlgen.Raw(" "), o)
	}
	parts = append(parts, b.paging.render()...)

	return finish(parts), nil
}
