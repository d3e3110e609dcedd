package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

var (
	_ Validator = (*ArrayValidator)(nil)
	_ Validator = (*ObjectValidator)(nil)
)

// ArrayValidator validates slices and arrays element-wise, producing []any.
type ArrayValidator struct {
	element Validator
	min     int
	max     int
}

// Array creates an array validator for elements validated by element.
func Array(element Validator) *ArrayValidator {
	return &ArrayValidator{element: element, min: -1, max: -1}
}

// Min sets the minimum number of elements.
func (v *ArrayValidator) Min(n uint) *ArrayValidator {
	v.min = int(n)
	return v
}

// Max sets the maximum number of elements.
func (v *ArrayValidator) Max(n uint) *ArrayValidator {
	v.max = int(n)
	return v
}

func (v *ArrayValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value of type %T is not an array", value)
	}

	n := rv.Len()
	if v.min >= 0 && n < v.min {
		return nil, fmt.Errorf("too few elements, minimum is %d", v.min)
	}
	if v.max >= 0 && n > v.max {
		return nil, fmt.Errorf("too many elements, maximum is %d", v.max)
	}

	out := make([]any, n)
	for i := 0; i < n; i++ {
		el, err := v.element.Validate(rv.Index(i).Interface())
		if err != nil {
			return nil, nest(strconv.Itoa(i), err)
		}
		out[i] = el
	}
	return out, nil
}

func (v *ArrayValidator) TypeName() string {
	return "[" + v.element.TypeName() + "]"
}

// ObjectValidator validates string-keyed maps member by member and
// produces map[string]any.
type ObjectValidator struct {
	fields map[string]Validator
	strict bool
}

// Object creates an object validator. Members wrapped in Optional may be
// absent; any other member is validated as nil when absent.
func Object(fields map[string]Validator) *ObjectValidator {
	return &ObjectValidator{fields: fields}
}

// Strict rejects members that have no validator.
func (v *ObjectValidator) Strict() *ObjectValidator {
	v.strict = true
	return v
}

// Fields returns the member names in sorted order.
func (v *ObjectValidator) Fields() []string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the validator of a member.
func (v *ObjectValidator) Field(name string) (Validator, bool) {
	f, ok := v.fields[name]
	return f, ok
}

func (v *ObjectValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	input, err := toStringMap(value)
	if err != nil {
		return nil, err
	}

	if v.strict {
		keys := make([]string, 0, len(input))
		for k := range input {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := v.fields[k]; !ok {
				return nil, &FieldError{Path: k, Err: fmt.Errorf("unknown member")}
			}
		}
	}

	out := make(map[string]any, len(v.fields))
	for _, name := range v.Fields() {
		field := v.fields[name]
		raw, present := input[name]
		if !present && IsOptional(field) {
			continue
		}

		validated, err := field.Validate(raw)
		if err != nil {
			return nil, nest(name, err)
		}
		out[name] = validated
	}
	return out, nil
}

func (v *ObjectValidator) TypeName() string {
	return "Object"
}

func toStringMap(value any) (map[string]any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("value of type %T is not an object", value)
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}
