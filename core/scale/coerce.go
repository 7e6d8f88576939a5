package scale

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the value type a scale produces.
type Type int

// Supported value types.
const (
	Any Type = iota
	Int
	Float
	Bool
	String
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "any"
	}
}

// Zero returns the zero value of t. Any has no zero value.
func (t Type) Zero() any {
	switch t {
	case Int:
		return int64(0)
	case Float:
		return 0.0
	case Bool:
		return false
	case String:
		return ""
	default:
		return nil
	}
}

// Coerce converts v to t. Floats are truncated toward zero when an int is required.
func Coerce(t Type, v any) (any, error) {
	switch t {
	case Int:
		return ToInt(v)
	case Float:
		return ToFloat(v)
	case Bool:
		return ToBool(v)
	case String:
		if v == nil {
			return "", nil
		}
		return fmt.Sprint(v), nil
	default:
		return v, nil
	}
}

// ToFloat converts numeric, boolean and string values to float64.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return ToFloat(string(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float value %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// ToInt converts v to int64, truncating fractional values.
func ToInt(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid int value %q", x)
		}
		return i, nil
	case []byte:
		return ToInt(string(x))
	}
	f, err := ToFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot convert %v to int", f)
	}
	return int64(f), nil
}

// ToBool converts v to bool. Strings must be parseable by strconv.ParseBool.
func ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("invalid bool value %q", x)
		}
		return b, nil
	case []byte:
		return ToBool(string(x))
	}
	f, err := ToFloat(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

// Truthy reports whether v is a non-zero, non-empty value.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	}
	f, err := ToFloat(v)
	if err != nil {
		return true
	}
	return f != 0
}
