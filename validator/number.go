package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	_ Validator = (*IntValidator)(nil)
	_ Validator = (*FloatValidator)(nil)
)

// IntValidator validates integers and produces int64.
type IntValidator struct {
	min *int64
	max *int64
}

// Int creates an integer validator without bounds.
func Int() *IntValidator {
	return &IntValidator{}
}

// Min sets the inclusive lower bound.
func (v *IntValidator) Min(n int64) *IntValidator {
	v.min = &n
	return v
}

// Max sets the inclusive upper bound.
func (v *IntValidator) Max(n int64) *IntValidator {
	v.max = &n
	return v
}

func (v *IntValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	i, err := toInt64(value)
	if err != nil {
		return nil, err
	}

	if v.min != nil && i < *v.min {
		return nil, fmt.Errorf("value too small, minimum is %d", *v.min)
	}
	if v.max != nil && i > *v.max {
		return nil, fmt.Errorf("value too big, maximum is %d", *v.max)
	}
	return i, nil
}

func (v *IntValidator) TypeName() string {
	return "Int"
}

func toInt64(value any) (int64, error) {
	switch x := value.(type) {
	case json.Number:
		return toInt64(x.String())
	case []byte:
		return toInt64(string(x))
	case string:
		s := strings.TrimSpace(x)
		base := 10
		switch {
		case strings.HasPrefix(s, "0b"):
			base, s = 2, s[2:]
		case strings.HasPrefix(s, "0o"):
			base, s = 8, s[2:]
		case strings.HasPrefix(s, "0x"):
			base, s = 16, s[2:]
		}
		i, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return 0, fmt.Errorf("value not parseable as base-%d integer", base)
		}
		return i, nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.CanInt():
		return rv.Int(), nil
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case rv.CanFloat():
		f := math.Round(rv.Float())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("value %v is not a finite number", f)
		}
		// float64(math.MaxInt64) rounds up to 2^63.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v overflows int64", f)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("value of type %T is not an integer", value)
}

// FloatValidator validates numbers and produces float64.
type FloatValidator struct {
	min       *float64
	max       *float64
	precision *int
}

// Float creates a float validator without bounds.
func Float() *FloatValidator {
	return &FloatValidator{}
}

// Min sets the inclusive lower bound.
func (v *FloatValidator) Min(f float64) *FloatValidator {
	v.min = &f
	return v
}

// Max sets the inclusive upper bound.
func (v *FloatValidator) Max(f float64) *FloatValidator {
	v.max = &f
	return v
}

// Round rounds the result to the given number of decimal places.
func (v *FloatValidator) Round(places uint) *FloatValidator {
	p := int(places)
	v.precision = &p
	return v
}

func (v *FloatValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	f, err := toFloat64(value)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("value %v is not a finite number", f)
	}

	if v.precision != nil {
		ratio := math.Pow10(*v.precision)
		f = math.Round(f*ratio) / ratio
	}
	if v.min != nil && f < *v.min {
		return nil, fmt.Errorf("value too small, minimum is %v", *v.min)
	}
	if v.max != nil && f > *v.max {
		return nil, fmt.Errorf("value too big, maximum is %v", *v.max)
	}
	return f, nil
}

func (v *FloatValidator) TypeName() string {
	return "Float"
}

func toFloat64(value any) (float64, error) {
	switch x := value.(type) {
	case json.Number:
		return toFloat64(x.String())
	case []byte:
		return toFloat64(string(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("value not parseable as float")
		}
		return f, nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.CanFloat():
		return rv.Float(), nil
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("value of type %T is not a number", value)
}
