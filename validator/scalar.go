package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	_ Validator = (*BoolValidator)(nil)
	_ Validator = (*DateTimeValidator)(nil)
	_ Validator = (*UUIDValidator)(nil)
)

// BoolValidator validates booleans.
type BoolValidator struct{}

// Bool creates a boolean validator. It accepts bools, the strings understood
// by strconv.ParseBool and the integers 0 and 1.
func Bool() *BoolValidator {
	return &BoolValidator{}
}

func (v *BoolValidator) Validate(value any) (any, error) {
	switch x := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("value %q is not a boolean", x)
		}
		return b, nil
	}

	if i, err := toInt64(value); err == nil && (i == 0 || i == 1) {
		return i == 1, nil
	}
	return nil, fmt.Errorf("value of type %T is not a boolean", value)
}

func (v *BoolValidator) TypeName() string {
	return "Boolean"
}

// DateTimeValidator validates timestamps and produces time.Time.
type DateTimeValidator struct {
	min *time.Time
	max *time.Time
}

// DateTime creates a timestamp validator. It accepts time.Time, common
// textual layouts and integer unix seconds.
func DateTime() *DateTimeValidator {
	return &DateTimeValidator{}
}

// Min sets the inclusive lower bound.
func (v *DateTimeValidator) Min(t time.Time) *DateTimeValidator {
	v.min = &t
	return v
}

// Max sets the inclusive upper bound.
func (v *DateTimeValidator) Max(t time.Time) *DateTimeValidator {
	v.max = &t
	return v
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
	time.Layout,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.RFC1123,
	time.RFC1123Z,
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (v *DateTimeValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	var t time.Time
	switch x := value.(type) {
	case time.Time:
		t = x
	case []byte:
		return v.Validate(string(x))
	case string:
		parsed, ok := parseTime(strings.TrimSpace(x))
		if !ok {
			return nil, fmt.Errorf("value %q is not a parseable timestamp", x)
		}
		t = parsed
	default:
		rv := reflect.ValueOf(value)
		if !rv.CanInt() && !rv.CanUint() {
			return nil, fmt.Errorf("value of type %T is not a timestamp", value)
		}
		secs, err := toInt64(value)
		if err != nil {
			return nil, err
		}
		t = time.Unix(secs, 0).UTC()
	}

	if v.min != nil && t.Before(*v.min) {
		return nil, fmt.Errorf("value too early, minimum is %s", v.min.Format(time.RFC3339))
	}
	if v.max != nil && t.After(*v.max) {
		return nil, fmt.Errorf("value too late, maximum is %s", v.max.Format(time.RFC3339))
	}
	return t, nil
}

func (v *DateTimeValidator) TypeName() string {
	return "DateTime"
}

// UUIDValidator validates UUIDs and produces their canonical string form.
type UUIDValidator struct {
	version uuid.Version
}

// UUID creates a UUID validator accepting any version.
func UUID() *UUIDValidator {
	return &UUIDValidator{}
}

// Version restricts accepted UUIDs to version n.
func (v *UUIDValidator) Version(n int) *UUIDValidator {
	v.version = uuid.Version(n)
	return v
}

func (v *UUIDValidator) Validate(value any) (any, error) {
	var id uuid.UUID
	switch x := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		id = x
	case [16]byte:
		id = uuid.UUID(x)
	case []byte:
		if len(x) == 16 {
			parsed, err := uuid.FromBytes(x)
			if err != nil {
				return nil, err
			}
			id = parsed
			break
		}
		return v.Validate(string(x))
	case string:
		parsed, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("value %q is not a UUID", x)
		}
		id = parsed
	default:
		return nil, fmt.Errorf("value of type %T is not a UUID", value)
	}

	if v.version != 0 && id.Version() != v.version {
		return nil, fmt.Errorf("UUID version %d required, got %d", v.version, id.Version())
	}
	return id.String(), nil
}

func (v *UUIDValidator) TypeName() string {
	return "UUID"
}
