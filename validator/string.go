package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var _ Validator = (*StringValidator)(nil)

type letterCase int

const (
	keepCase letterCase = iota
	upperCase
	lowerCase
)

// StringValidator validates strings. Blank results become nil.
type StringValidator struct {
	min     int
	max     int
	trim    bool
	lc      letterCase
	pattern *regexp.Regexp
}

// String creates a string validator without bounds.
func String() *StringValidator {
	return &StringValidator{min: -1, max: -1}
}

// Min sets the minimum length in characters.
func (v *StringValidator) Min(n uint) *StringValidator {
	v.min = int(n)
	return v
}

// Max sets the maximum length in characters.
func (v *StringValidator) Max(n uint) *StringValidator {
	v.max = int(n)
	return v
}

// Trim strips surrounding whitespace before validation.
func (v *StringValidator) Trim() *StringValidator {
	v.trim = true
	return v
}

// Upper converts the result to upper case.
func (v *StringValidator) Upper() *StringValidator {
	v.lc = upperCase
	return v
}

// Lower converts the result to lower case.
func (v *StringValidator) Lower() *StringValidator {
	v.lc = lowerCase
	return v
}

// Pattern requires the value to match re.
func (v *StringValidator) Pattern(re *regexp.Regexp) *StringValidator {
	v.pattern = re
	return v
}

func (v *StringValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	var str string
	switch s := value.(type) {
	case string:
		str = s
	case []byte:
		str = string(s)
	case fmt.Stringer:
		str = s.String()
	default:
		return nil, fmt.Errorf("value of type %T is not a string", value)
	}

	if v.trim {
		str = strings.TrimSpace(str)
	}
	if str == "" {
		return nil, nil
	}

	n := utf8.RuneCountInString(str)
	if v.min >= 0 && n < v.min {
		return nil, fmt.Errorf("value too short, min length is %d", v.min)
	}
	if v.max >= 0 && n > v.max {
		return nil, fmt.Errorf("value too long, max length is %d", v.max)
	}

	switch v.lc {
	case upperCase:
		str = strings.ToUpper(str)
	case lowerCase:
		str = strings.ToLower(str)
	}

	if v.pattern != nil && !v.pattern.MatchString(str) {
		return nil, fmt.Errorf("value does not match pattern %s", v.pattern.String())
	}

	return str, nil
}

func (v *StringValidator) TypeName() string {
	return "String"
}
