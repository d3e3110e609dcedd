// Package sqlgen provides the SQL fragment type that all statements are
// composed from, together with identifier validation and placeholder
// numbering.
package sqlgen

import (
	"strconv"
	"strings"
)

// Marker is the placeholder written into fragment text for every bound
// value. Markers are rewritten into positional parameters by Renumber.
//
// A run of question marks is read right to left in pairs, so an odd run
// starts with one literal '?': "??? x" is the operator '?' followed by a
// marker. Raw text must not contain "??" anywhere else, string literals
// included.
const Marker = "??"

// Fragment is a piece of SQL text with the values bound to its markers.
// The number of markers in SQL always equals len(Args).
type Fragment struct {
	SQL  string
	Args []any
}

// Raw creates a fragment from text and the values for its markers.
func Raw(sql string, args ...any) Fragment {
	return Fragment{SQL: sql, Args: args}
}

// Value creates a single-marker fragment bound to v.
func Value(v any) Fragment {
	return Fragment{SQL: Marker, Args: []any{v}}
}

// IsEmpty reports whether the fragment carries no text.
func (f Fragment) IsEmpty() bool {
	return strings.TrimSpace(f.SQL) == ""
}

// Placeholders counts the markers in the fragment text.
func (f Fragment) Placeholders() int {
	n := 0
	for i := 0; i < len(f.SQL); {
		k := runLength(f.SQL[i:])
		n += k / 2
		i += max(k, 1)
	}
	return n
}

// runLength returns the number of leading '?' in s.
func runLength(s string) int {
	k := 0
	for k < len(s) && s[k] == '?' {
		k++
	}
	return k
}

// dangling reports whether s ends in a literal '?' that would pair with a
// following marker.
func dangling(s string) bool {
	k := 0
	for k < len(s) && s[len(s)-1-k] == '?' {
		k++
	}
	return k%2 == 1
}

// Wrap returns the fragment enclosed in parentheses.
func (f Fragment) Wrap() Fragment {
	return Fragment{SQL: "(" + f.SQL + ")", Args: f.Args}
}

// Concat joins fragments without a separator.
func Concat(parts ...Fragment) Fragment {
	return Join("", parts...)
}

// Join joins fragments with sep. Args keep the order of their fragments.
// A space is put between a literal '?' and a following marker.
func Join(sep string, parts ...Fragment) Fragment {
	var sb strings.Builder
	var args []any

	for i, p := range parts {
		if i > 0 {
			sb.WriteString(sep)
		}
		if strings.HasPrefix(p.SQL, "?") && dangling(sb.String()) {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.SQL)
		args = append(args, p.Args...)
	}

	return Fragment{SQL: sb.String(), Args: args}
}

// Renumber rewrites every marker in sql into a one-based positional
// parameter ($1, $2, ...) in left-to-right order. An odd run of question
// marks keeps its first '?' as is.
func Renumber(sql string) string {
	if !strings.Contains(sql, Marker) {
		return sql
	}

	var sb strings.Builder
	sb.Grow(len(sql) + 8)

	n := 0
	for {
		i := strings.IndexByte(sql, '?')
		if i < 0 {
			sb.WriteString(sql)
			break
		}
		sb.WriteString(sql[:i])
		sql = sql[i:]

		k := runLength(sql)
		if k%2 == 1 {
			sb.WriteByte('?')
		}
		for range k / 2 {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		}
		sql = sql[k:]
	}

	return sb.String()
}
