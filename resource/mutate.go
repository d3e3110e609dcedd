package resource

import (
	"context"
	"fmt"

	"github.com/stuck-lehnert/cloud/internal/debug"
	"github.com/stuck-lehnert/cloud/query/builder"
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// Create inserts one record. data may hold create-only and modifiable
// attributes; attributes left out receive their column default.
func (h *Handle) Create(ctx context.Context, data map[string]any) (Record, error) {
	r := h.res

	values, err := r.createColumns(data)
	if err != nil {
		return nil, err
	}

	q := builder.Insert(r.def.Table).Values(values)
	returning[*builder.InsertBuilder](r, q, h.scope)

	records, err := h.write(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("%s: insert returned %d rows", r.Name(), len(records))
	}

	debug.Debug("created record", "resource", r.Name())
	return records[0], nil
}

// Modify updates every record matching filter with data, which may only
// hold modifiable attributes, and returns the updated records.
func (h *Handle) Modify(ctx context.Context, filter, data map[string]any) ([]Record, error) {
	r := h.res

	values, err := r.modifyColumns(data)
	if err != nil {
		return nil, err
	}
	where, err := r.filterColumns(filter)
	if err != nil {
		return nil, err
	}

	q := builder.Update(r.def.Table).SetValues(values).WhereValues(where)
	if r.def.UpdateFilter != nil {
		q.Where(r.def.UpdateFilter(quoteAlias(r.def.Table), h.scope))
	}
	returning[*builder.UpdateBuilder](r, q, h.scope)

	records, err := h.write(ctx, q)
	if err != nil {
		return nil, err
	}

	debug.Debug("modified records", "resource", r.Name(), "count", len(records))
	return records, nil
}

// Delete removes every record matching filter and returns them. An empty
// filter is rejected.
func (h *Handle) Delete(ctx context.Context, filter map[string]any) ([]Record, error) {
	r := h.res

	if len(filter) == 0 {
		return nil, &sqlgen.PreconditionError{Statement: "DELETE", Clause: "WHERE predicate"}
	}
	where, err := r.filterColumns(filter)
	if err != nil {
		return nil, err
	}

	q := builder.Delete(r.def.Table).WhereValues(where)
	if r.def.DeleteFilter != nil {
		q.Where(r.def.DeleteFilter(quoteAlias(r.def.Table), h.scope))
	}
	returning[*builder.DeleteBuilder](r, q, h.scope)

	records, err := h.write(ctx, q)
	if err != nil {
		return nil, err
	}

	debug.Debug("deleted records", "resource", r.Name(), "count", len(records))
	return records, nil
}

func (h *Handle) write(ctx context.Context, q builder.Statement) ([]Record, error) {
	stmt, err := q.Build()
	if err != nil {
		return nil, err
	}
	rows, err := h.exec.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return h.res.aggregate(rows, nil)
}
