package resource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/stuck-lehnert/cloud/internal/debug"
	"github.com/stuck-lehnert/cloud/query/builder"
	"github.com/stuck-lehnert/cloud/query/sqlgen"
	"github.com/stuck-lehnert/cloud/runtime/client"
)

// mainAlias is the alias of the resource table in every SELECT.
const mainAlias = "main"

var (
	errUnknownReference = errors.New("unknown reference")
	errMissingKey       = errors.New("primary key attribute is required")
	errNotPrimaryKey    = errors.New("attribute is not part of the primary key")
	errNegative         = errors.New("must not be negative")
)

// FindOptions controls paging and eager loading. Limit and Offset count
// records of the resource itself, also when references are included.
type FindOptions struct {
	Limit   *int
	Offset  *int
	Include []string
}

// include is a reference joined into one SELECT.
type include struct {
	name     string
	ref      Reference
	target   *Resource
	alias    string
	junction string
	prefix   string
}

// quoteAlias quotes a generated alias. Generated aliases always satisfy the
// identifier grammar.
func quoteAlias(alias string) string {
	return `"` + alias + `"`
}

// includes resolves the requested references, dropping duplicates, and
// assigns join aliases j0, j1, ... in request order. A junction takes the
// alias following its target's.
func (r *Resource) includes(names []string) ([]include, error) {
	var out []include
	seen := make(map[string]bool, len(names))
	n := 0

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		ref, ok := r.def.References[name]
		if !ok {
			return nil, r.invalid(name, errUnknownReference)
		}
		if r.registry == nil {
			return nil, fmt.Errorf("resource %q: including %q requires a registered resource", r.Name(), name)
		}
		target, err := r.registry.Resolve(r, name)
		if err != nil {
			return nil, err
		}

		inc := include{name: name, ref: ref, target: target, alias: "j" + strconv.Itoa(n)}
		n++
		if ref.Join == nil {
			inc.junction = "j" + strconv.Itoa(n)
			n++
		}
		inc.prefix = "__" + inc.alias + "_"
		out = append(out, inc)
	}
	return out, nil
}

// project adds one column per attribute of r, evaluated against alias and
// named prefix+attribute.
func (r *Resource) project(q *builder.SelectBuilder, alias, prefix string, scope any) error {
	for _, name := range r.names {
		switch a := r.def.Attributes[name].(type) {
		case Static:
			col, err := sqlgen.Column(alias, a.Column)
			if err != nil {
				return err
			}
			q.Expr(prefix+name, col)
		case Dynamic:
			q.Expr(prefix+name, a.Expr(quoteAlias(alias), scope))
		}
	}
	return nil
}

// returner is implemented by the INSERT, UPDATE and DELETE builders.
type returner[B any] interface {
	Column(alias, column string) B
	Expr(alias string, expr sqlgen.Fragment) B
}

// returning adds every attribute of r to the RETURNING clause of q.
// Dynamic attributes are evaluated against the table itself.
func returning[B any](r *Resource, q returner[B], scope any) {
	for _, name := range r.names {
		switch a := r.def.Attributes[name].(type) {
		case Static:
			q.Column(name, a.Column)
		case Dynamic:
			q.Expr(name, a.Expr(quoteAlias(r.def.Table), scope))
		}
	}
}

// filtered applies the base filter, the equality filter and the default
// order to a SELECT on the main alias.
func (h *Handle) filtered(q *builder.SelectBuilder, where map[string]any) {
	r := h.res
	ref := quoteAlias(mainAlias)

	if r.def.BaseFilter != nil {
		q.Where(r.def.BaseFilter(ref, h.scope))
	}
	q.WhereValues(where)

	for _, o := range r.def.OrderBy {
		if o.Expr != nil {
			q.OrderByExpr(o.Expr(ref, h.scope), o.Direction)
			continue
		}
		switch a := r.def.Attributes[o.Attribute].(type) {
		case Static:
			q.OrderBy(a.Column, o.Direction)
		case Dynamic:
			q.OrderByExpr(a.Expr(ref, h.scope), o.Direction)
		}
	}
}

// orderByKey appends the primary key as the final sort key, which keeps the
// rows of one record adjacent.
func (r *Resource) orderByKey(q *builder.SelectBuilder) {
	for _, name := range r.def.PrimaryKey {
		q.OrderBy(r.def.Attributes[name].(Static).Column, builder.Asc)
	}
}

// selectQuery builds the joined SELECT for a find.
func (h *Handle) selectQuery(where map[string]any, includes []include) (*builder.SelectBuilder, error) {
	r := h.res
	q := builder.Select(r.def.Table, mainAlias)

	if err := r.project(q, mainAlias, "", h.scope); err != nil {
		return nil, err
	}

	main := quoteAlias(mainAlias)
	for _, inc := range includes {
		rhs := quoteAlias(inc.alias)
		if inc.ref.Join != nil {
			q.LeftJoin(inc.target.def.Table, inc.alias, inc.ref.Join(main, rhs))
		} else {
			conds := inc.ref.Junction(main, quoteAlias(inc.junction), rhs)
			q.LeftJoin(inc.ref.JunctionTable, inc.junction, conds[0])
			q.LeftJoin(inc.target.def.Table, inc.alias, conds[1])
		}

		if err := inc.target.project(q, inc.alias, inc.prefix, h.scope); err != nil {
			return nil, err
		}
	}

	h.filtered(q, where)
	if len(includes) > 0 {
		r.orderByKey(q)
	}
	return q, nil
}

func checkPaging(r *Resource, opts FindOptions) error {
	if opts.Limit != nil && *opts.Limit < 0 {
		return r.invalid("limit", errNegative)
	}
	if opts.Offset != nil && *opts.Offset < 0 {
		return r.invalid("offset", errNegative)
	}
	return nil
}

func page(q *builder.SelectBuilder, opts FindOptions) {
	if opts.Limit != nil {
		q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q.Offset(*opts.Offset)
	}
}

// FindMany returns the records matching filter, an equality filter keyed by
// static attribute names. Included references are loaded with LEFT JOINs
// and folded into each record.
func (h *Handle) FindMany(ctx context.Context, filter map[string]any, opts FindOptions) ([]Record, error) {
	r := h.res

	where, err := r.filterColumns(filter)
	if err != nil {
		return nil, err
	}
	if err := checkPaging(r, opts); err != nil {
		return nil, err
	}
	includes, err := r.includes(opts.Include)
	if err != nil {
		return nil, err
	}

	debug.Debug("find many", "resource", r.Name(), "filter", len(where), "include", len(includes))

	paged := opts.Limit != nil || opts.Offset != nil
	if len(includes) == 0 || !paged {
		q, err := h.selectQuery(where, includes)
		if err != nil {
			return nil, err
		}
		page(q, opts)
		return h.fetch(ctx, h.exec, q, includes)
	}

	// Joined rows cannot be paged directly, so the page of primary keys is
	// selected first and the joined query is restricted to it.
	var out []Record
	err = h.exec.Transaction(ctx, func(tx client.Executor) error {
		keys, err := h.pageKeys(ctx, tx, where, opts)
		if err != nil {
			return err
		}
		if keys.IsEmpty() {
			out = []Record{}
			return nil
		}

		q, err := h.selectQuery(where, includes)
		if err != nil {
			return err
		}
		q.Where(keys)

		out, err = h.fetch(ctx, tx, q, includes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// pageKeys selects one page of primary keys and returns a predicate
// matching exactly those keys. The predicate is empty for an empty page.
func (h *Handle) pageKeys(ctx context.Context, exec client.Executor, where map[string]any, opts FindOptions) (sqlgen.Fragment, error) {
	r := h.res
	q := builder.Select(r.def.Table, mainAlias)
	for _, name := range r.def.PrimaryKey {
		q.Column(name, r.def.Attributes[name].(Static).Column)
	}
	h.filtered(q, where)
	r.orderByKey(q)
	page(q, opts)

	stmt, err := q.Build()
	if err != nil {
		return sqlgen.Fragment{}, err
	}
	rows, err := exec.Query(ctx, stmt)
	if err != nil || len(rows) == 0 {
		return sqlgen.Fragment{}, err
	}

	matches := make([]sqlgen.Fragment, 0, len(rows))
	for _, row := range rows {
		preds := make([]sqlgen.Fragment, 0, len(r.def.PrimaryKey))
		for _, name := range r.def.PrimaryKey {
			pred, err := builder.Equals(mainAlias, r.def.Attributes[name].(Static).Column, row[name])
			if err != nil {
				return sqlgen.Fragment{}, err
			}
			preds = append(preds, pred)
		}
		if len(preds) == 1 {
			matches = append(matches, preds[0])
			continue
		}
		matches = append(matches, builder.AllOf(preds...))
	}
	return builder.AnyOf(matches...), nil
}

func (h *Handle) fetch(ctx context.Context, exec client.Executor, q *builder.SelectBuilder, includes []include) ([]Record, error) {
	stmt, err := q.Build()
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return h.res.aggregate(rows, includes)
}

// FindUnique returns the record with the given primary key, or nil when
// there is none. Every primary key attribute must be given and nothing
// else. Paging options are ignored.
func (h *Handle) FindUnique(ctx context.Context, pkey map[string]any, opts FindOptions) (Record, error) {
	r := h.res

	for _, name := range r.def.PrimaryKey {
		if v, ok := pkey[name]; !ok || clean(v) == nil {
			return nil, r.invalid(name, errMissingKey)
		}
	}
	if len(pkey) != len(r.def.PrimaryKey) {
		for _, name := range sortedKeys(pkey) {
			if !slices.Contains(r.def.PrimaryKey, name) {
				return nil, r.invalid(name, errNotPrimaryKey)
			}
		}
	}

	find := FindOptions{Include: opts.Include}
	if len(opts.Include) == 0 {
		one := 1
		find.Limit = &one
	}

	records, err := h.FindMany(ctx, pkey, find)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
