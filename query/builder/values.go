package builder

import (
	"sort"
	"strings"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// rows accumulates INSERT value rows. Rows may carry different key sets.
type rows struct {
	items []map[string]any
}

func (r *rows) add(row map[string]any) error {
	for k := range row {
		if err := sqlgen.CheckIdentifier(k); err != nil {
			return err
		}
	}
	r.items = append(r.items, row)
	return nil
}

// columnNames is the union of row keys in first-seen order. Keys of a
// single row are visited in sorted order since maps carry none.
func (r *rows) columnNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range r.items {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}

// render emits `("a", "b") VALUES (??, ??), (??, DEFAULT)`.
func (r *rows) render(names []string) sqlgen.Fragment {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}

	tuples := make([]sqlgen.Fragment, len(r.items))
	for i, row := range r.items {
		cells := make([]sqlgen.Fragment, len(names))
		for j, n := range names {
			if v, ok := row[n]; ok {
				cells[j] = valueFragment(v)
			} else {
				cells[j] = sqlgen.Raw("DEFAULT")
			}
		}
		tuples[i] = sqlgen.Join(", ", cells...).Wrap()
	}

	return sqlgen.Concat(
		sqlgen.Raw("("+strings.Join(quoted, ", ")+") VALUES "),
		sqlgen.Join(", ", tuples...),
	)
}

// valueFragment uses a fragment verbatim and binds anything else.
func valueFragment(v any) sqlgen.Fragment {
	if f, ok := v.(sqlgen.Fragment); ok {
		return f
	}
	return sqlgen.Value(v)
}

// assignments accumulates UPDATE SET entries in insertion order.
type assignments struct {
	keys   []string
	values map[string]sqlgen.Fragment
}

func (a *assignments) set(column string, value any) error {
	if err := sqlgen.CheckIdentifier(column); err != nil {
		return err
	}
	if a.values == nil {
		a.values = make(map[string]sqlgen.Fragment)
	}
	if _, ok := a.values[column]; !ok {
		a.keys = append(a.keys, column)
	}
	a.values[column] = valueFragment(value)
	return nil
}

func (a *assignments) len() int {
	return len(a.keys)
}

func (a *assignments) render() sqlgen.Fragment {
	parts := make([]sqlgen.Fragment, len(a.keys))
	for i, k := range a.keys {
		parts[i] = sqlgen.Concat(sqlgen.Raw(`"`+k+`" = `), a.values[k])
	}
	return sqlgen.Join(", ", parts...)
}
