package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// columns accumulates aliased output columns for SELECT lists and
// RETURNING clauses.
type columns struct {
	ref   string
	items []sqlgen.Fragment
}

func (c *columns) column(alias, column string) error {
	col, err := sqlgen.Column(c.ref, column)
	if err != nil {
		return err
	}
	return c.expr(alias, col)
}

func (c *columns) expr(alias string, expr sqlgen.Fragment) error {
	quoted, err := sqlgen.Ident(alias)
	if err != nil {
		return err
	}
	c.items = append(c.items, sqlgen.Fragment{
		SQL:  expr.SQL + " AS " + quoted,
		Args: expr.Args,
	})
	return nil
}

func (c *columns) render() (sqlgen.Fragment, bool) {
	if len(c.items) == 0 {
		return sqlgen.Fragment{}, false
	}
	return sqlgen.Join(", ", c.items...), true
}

// returning renders the optional RETURNING clause.
func (c *columns) returning() (sqlgen.Fragment, bool) {
	cols, ok := c.render()
	if !ok {
		return cols, false
	}
	return sqlgen.Concat(sqlgen.Raw(" RETURNING "), cols), true
}
