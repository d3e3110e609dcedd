package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

type orderTerm struct {
	expr sqlgen.Fragment
	dir  Direction
}

// ordering accumulates ORDER BY terms.
type ordering struct {
	ref   string
	terms []orderTerm
}

func (o *ordering) column(column string, dir Direction) error {
	col, err := sqlgen.Column(o.ref, column)
	if err != nil {
		return err
	}
	o.expr(col, dir)
	return nil
}

func (o *ordering) expr(expr sqlgen.Fragment, dir Direction) {
	if dir != Desc {
		dir = Asc
	}
	o.terms = append(o.terms, orderTerm{expr: expr, dir: dir})
}

func (o *ordering) render() (sqlgen.Fragment, bool) {
	if len(o.terms) == 0 {
		return sqlgen.Fragment{}, false
	}

	parts := make([]sqlgen.Fragment, len(o.terms))
	for i, t := range o.terms {
		parts[i] = sqlgen.Concat(t.expr, sqlgen.Raw(" "+string(t.dir)))
	}
	return sqlgen.Concat(sqlgen.Raw("ORDER BY "), sqlgen.Join(", ", parts...)), true
}

// paging holds the optional LIMIT and OFFSET values.
type paging struct {
	limit  *sqlgen.Fragment
	offset *sqlgen.Fragment
}

func (p *paging) setLimit(n int) {
	f := sqlgen.Value(n)
	p.limit = &f
}

func (p *paging) setOffset(n int) {
	f := sqlgen.Value(n)
	p.offset = &f
}

func (p *paging) render() []sqlgen.Fragment {
	var parts []sqlgen.Fragment
	if p.limit != nil {
		parts = append(parts, sqlgen.Raw(" LIMIT "), *p.limit)
	}
	if p.offset != nil {
		parts = append(parts, sqlgen.Raw(" OFFSET "), *p.offset)
	}
	return parts
}
