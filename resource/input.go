package resource

import (
	"errors"
	"sort"
	"strings"
)

var (
	errUnknownAttribute = errors.New("unknown attribute")
	errNotFilterable    = errors.New("computed attribute cannot be filtered on")
	errNotWritable      = errors.New("attribute cannot be written")
	errNoData           = errors.New("no attributes to modify")
)

// clean trims strings and turns empty strings into nil.
func clean(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func (r *Resource) invalid(field string, err error) *ValidationError {
	return &ValidationError{Resource: r.def.Name, Field: field, Err: err}
}

// coerce cleans value and runs it through the attribute's validator.
func (r *Resource) coerce(name string, attr Attribute, value any) (any, error) {
	out, err := attr.valueType().Validate(clean(value))
	if err != nil {
		return nil, r.invalid(name, err)
	}
	return out, nil
}

// filterColumns maps a filter keyed by attribute name to coerced values
// keyed by column.
func (r *Resource) filterColumns(filter map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(filter))
	for _, name := range sortedKeys(filter) {
		attr, ok := r.def.Attributes[name]
		if !ok {
			return nil, r.invalid(name, errUnknownAttribute)
		}
		static, ok := attr.(Static)
		if !ok {
			return nil, r.invalid(name, errNotFilterable)
		}

		v, err := r.coerce(name, attr, filter[name])
		if err != nil {
			return nil, err
		}
		out[static.Column] = v
	}
	return out, nil
}

// createColumns validates data for Create. Every create-only and modifiable
// attribute is validated, so required attributes must be present; absent
// attributes are left to the column default.
func (r *Resource) createColumns(data map[string]any) (map[string]any, error) {
	writable := make(map[string]bool, len(r.def.CreateOnly)+len(r.def.Modifiable))
	for _, name := range r.def.CreateOnly {
		writable[name] = true
	}
	for _, name := range r.def.Modifiable {
		writable[name] = true
	}

	for _, name := range sortedKeys(data) {
		if _, ok := r.def.Attributes[name]; !ok {
			return nil, r.invalid(name, errUnknownAttribute)
		}
		if !writable[name] {
			return nil, r.invalid(name, errNotWritable)
		}
	}

	out := make(map[string]any, len(data))
	for _, name := range sortedKeys(writable) {
		static := r.def.Attributes[name].(Static)
		value, present := data[name]

		v, err := r.coerce(name, static, value)
		if err != nil {
			return nil, err
		}
		if present {
			out[static.Column] = v
		}
	}
	return out, nil
}

// modifyColumns validates data for Modify. Only modifiable attributes may
// be given; at least one is required. Create-only keys are rejected before
// any other key or value is looked at.
func (r *Resource) modifyColumns(data map[string]any) (map[string]any, error) {
	if len(data) == 0 {
		return nil, r.invalid("", errNoData)
	}

	modifiable := make(map[string]bool, len(r.def.Modifiable))
	for _, name := range r.def.Modifiable {
		modifiable[name] = true
	}
	createOnly := make(map[string]bool, len(r.def.CreateOnly))
	for _, name := range r.def.CreateOnly {
		createOnly[name] = true
	}

	names := sortedKeys(data)
	for _, name := range names {
		if createOnly[name] {
			return nil, r.invalid(name, ErrCreateOnly)
		}
	}
	for _, name := range names {
		if _, ok := r.def.Attributes[name]; !ok {
			return nil, r.invalid(name, errUnknownAttribute)
		}
		if !modifiable[name] {
			return nil, r.invalid(name, errNotWritable)
		}
	}

	out := make(map[string]any, len(data))
	for _, name := range names {
		attr := r.def.Attributes[name]
		v, err := r.coerce(name, attr, data[name])
		if err != nil {
			return nil, err
		}
		out[attr.(Static).Column] = v
	}
	return out, nil
}

// output coerces a raw row into a record with every attribute.
func (r *Resource) output(row map[string]any) (Record, error) {
	rec := make(Record, len(r.names))
	for _, name := range r.names {
		v, err := r.def.Attributes[name].valueType().Validate(row[name])
		if err != nil {
			return nil, r.invalid(name, err)
		}
		rec[name] = v
	}
	return rec, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
