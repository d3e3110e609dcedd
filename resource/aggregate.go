package resource

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var errMissingReference = errors.New("required reference matched no record")

// keyOf encodes the values of names in a form comparable with ==. The
// second result is false when every value is nil.
func keyOf(values map[string]any, names []string) (string, bool) {
	var sb strings.Builder
	present := false

	for i, name := range names {
		if i > 0 {
			sb.WriteByte(0)
		}

		v := values[name]
		if v == nil {
			sb.WriteString("<nil>")
			continue
		}
		present = true

		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(time.RFC3339Nano)
		}
		fmt.Fprintf(&sb, "%T=%v", v, v)
	}
	return sb.String(), present
}

// split separates the columns of the base resource from those of each
// include, stripping the include prefixes.
func split(row map[string]any, includes []include) (map[string]any, []map[string]any) {
	base := make(map[string]any, len(row))
	children := make([]map[string]any, len(includes))
	for i := range children {
		children[i] = make(map[string]any)
	}

next:
	for k, v := range row {
		for i, inc := range includes {
			if strings.HasPrefix(k, inc.prefix) {
				children[i][strings.TrimPrefix(k, inc.prefix)] = v
				continue next
			}
		}
		base[k] = v
	}
	return base, children
}

// aggregate folds joined rows into records. Rows of one record must be
// adjacent, which the trailing primary key order of the SELECT ensures.
//
// A child whose primary key columns are all null did not match: optional
// single references stay nil, many references get nothing appended and
// required single references fail. Single references keep the first match;
// many references collect distinct children in row order.
func (r *Resource) aggregate(rows []map[string]any, includes []include) ([]Record, error) {
	out := make([]Record, 0, len(rows))

	if len(includes) == 0 {
		for _, row := range rows {
			rec, err := r.output(row)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		return out, nil
	}

	var (
		current    Record
		currentKey string
		filled     []bool
		seen       []map[string]bool
	)

	for _, row := range rows {
		base, children := split(row, includes)

		key, _ := keyOf(base, r.def.PrimaryKey)
		if current == nil || key != currentKey {
			rec, err := r.output(base)
			if err != nil {
				return nil, err
			}
			for _, inc := range includes {
				if inc.ref.Cardinality == Many {
					rec[inc.name] = []Record{}
				} else {
					rec[inc.name] = nil
				}
			}

			out = append(out, rec)
			current, currentKey = rec, key
			filled = make([]bool, len(includes))
			seen = make([]map[string]bool, len(includes))
		}

		for i, inc := range includes {
			child := children[i]

			childKey, matched := keyOf(child, inc.target.def.PrimaryKey)
			if !matched {
				if inc.ref.Cardinality == RequiredSingle {
					return nil, r.invalid(inc.name, errMissingReference)
				}
				continue
			}

			switch inc.ref.Cardinality {
			case Many:
				if seen[i] == nil {
					seen[i] = make(map[string]bool)
				}
				if seen[i][childKey] {
					continue
				}
				seen[i][childKey] = true

				rec, err := inc.target.output(child)
				if err != nil {
					return nil, err
				}
				current[inc.name] = append(current[inc.name].([]Record), rec)
			default:
				if filled[i] {
					continue
				}
				rec, err := inc.target.output(child)
				if err != nil {
					return nil, err
				}
				current[inc.name] = rec
				filled[i] = true
			}
		}
	}

	return out, nil
}
