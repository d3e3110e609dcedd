// Package builder provides the SELECT, INSERT, UPDATE and DELETE statement
// builders and the clause accumulators they are assembled from.
//
// Builders are plain single-use values: create one per statement, chain
// clause calls, then call Build once. Identifier problems are remembered
// when a clause is added and reported by Build before any text is rendered.
package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// Direction is the sort direction of an ORDER BY term.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "ASC"
	// Desc sorts descending.
	Desc Direction = "DESC"
)

// JoinMode is the kind of a JOIN clause.
type JoinMode string

const (
	// InnerJoin keeps only matching rows.
	InnerJoin JoinMode = "INNER"
	// LeftJoin keeps every row of the left side.
	LeftJoin JoinMode = "LEFT"
)

// Statement is implemented by every statement builder.
type Statement interface {
	Build() (sqlgen.Fragment, error)
}

// state carries the first error recorded while adding clauses.
type state struct {
	err error
}

func (s *state) record(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// finish terminates the statement and renumbers its markers.
func finish(parts []sqlgen.Fragment) sqlgen.Fragment {
	parts = append(parts, sqlgen.Raw(";"))
	stmt := sqlgen.Concat(parts...)
	stmt.SQL = sqlgen.Renumber(stmt.SQL)
	if stmt.Args == nil {
		stmt.Args = []any{}
	}
	return stmt
}

var _ Statement = (*SelectBuilder)(nil)
var _ Statement = (*InsertBuilder)(nil)
var _ Statement = (*UpdateBuilder)(nil)
var _ Statement = (*DeleteBuilder)(nil)
