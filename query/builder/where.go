package builder

import (
	"sort"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// where accumulates predicates that are combined with AND.
type where struct {
	ref   string
	preds []sqlgen.Fragment
}

func (w *where) add(pred sqlgen.Fragment) {
	if pred.IsEmpty() {
		return
	}
	w.preds = append(w.preds, pred)
}

// values adds one equality predicate per entry, in column order.
func (w *where) values(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		pred, err := Equals(w.ref, k, values[k])
		if err != nil {
			return err
		}
		w.add(pred)
	}
	return nil
}

func (w *where) len() int {
	return len(w.preds)
}

func (w *where) render() (sqlgen.Fragment, bool) {
	if len(w.preds) == 0 {
		return sqlgen.Fragment{}, false
	}

	wrapped := make([]sqlgen.Fragment, len(w.preds))
	for i, p := range w.preds {
		wrapped[i] = p.Wrap()
	}
	return sqlgen.Concat(sqlgen.Raw("WHERE "), sqlgen.Join(" AND ", wrapped...)), true
}

// Equals builds `"ref"."column" = ??`, or `IS NULL` for a nil value.
func Equals(ref, column string, value any) (sqlgen.Fragment, error) {
	col, err := sqlgen.Column(ref, column)
	if err != nil {
		return sqlgen.Fragment{}, err
	}
	if value == nil {
		return sqlgen.Concat(col, sqlgen.Raw(" IS NULL")), nil
	}
	return sqlgen.Concat(col, sqlgen.Raw(" = "), sqlgen.Value(value)), nil
}

// AllOf combines predicates with AND, each wrapped in parentheses.
func AllOf(preds ...sqlgen.Fragment) sqlgen.Fragment {
	wrapped := make([]sqlgen.Fragment, 0, len(preds))
	for _, p := range preds {
		if !p.IsEmpty() {
			wrapped = append(wrapped, p.Wrap())
		}
	}
	return sqlgen.Join(" AND ", wrapped...)
}

// AnyOf combines predicates with OR, each wrapped in parentheses. An empty
// list yields a predicate that matches nothing.
func AnyOf(preds ...sqlgen.Fragment) sqlgen.Fragment {
	wrapped := make([]sqlgen.Fragment, 0, len(preds))
	for _, p := range preds {
		if !p.IsEmpty() {
			wrapped = append(wrapped, p.Wrap())
		}
	}
	if len(wrapped) == 0 {
		return sqlgen.Raw("1 = 0")
	}
	return sqlgen.Join(" OR ", wrapped...)
}
