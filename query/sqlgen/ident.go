package sqlgen

import (
	"regexp"
)

// identifierPattern is the grammar every table, column and alias name must
// satisfy before it is written into statement text.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// CheckIdentifier returns an *InvalidIdentifierError if name does not match
// the identifier grammar.
func CheckIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return &InvalidIdentifierError{Name: name}
	}
	return nil
}

// CheckIdentifiers checks names in order and returns the first violation.
func CheckIdentifiers(names ...string) error {
	for _, name := range names {
		if err := CheckIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}

// Ident returns the double-quoted form of a validated identifier.
func Ident(name string) (string, error) {
	if err := CheckIdentifier(name); err != nil {
		return "", err
	}
	return quote(name), nil
}

// Column returns a fragment referencing "ref"."column".
func Column(ref, column string) (Fragment, error) {
	if err := CheckIdentifiers(ref, column); err != nil {
		return Fragment{}, err
	}
	return Fragment{SQL: quote(ref) + "." + quote(column)}, nil
}

// MustColumn is like Column but panics on an invalid identifier. It is
// meant for resource definitions built from constant names.
func MustColumn(ref, column string) Fragment {
	f, err := Column(ref, column)
	if err != nil {
		panic(err)
	}
	return f
}

// Ref returns the quoted form of a table alias for use in join conditions
// and computed expressions.
func Ref(alias string) (string, error) {
	return Ident(alias)
}

// quote must only be called with names that passed CheckIdentifier.
func quote(name string) string {
	return `"` + name + `"`
}
