// Package scale normalizes and validates raw values produced by evaluation variables.
package scale

import (
	"fmt"
	"math"
	"slices"
)

// Scale coerces a raw value into its normalized form.
// Get(nil) never fails and returns the scale default.
type Scale interface {
	Get(v any) (any, error)
	Type() Type
	Name() string
}

// Compile-time checks
var (
	_ Scale = Base{}
	_ Scale = Nominal{}
	_ Scale = Boolean{}
	_ Scale = Ordinal{}
	_ Scale = Interval{}
	_ Scale = Ratio{}
	_ Scale = Unity{}
	_ Scale = Percent{}
)

// Base only coerces values to its type.
type Base struct {
	T Type
}

// Get coerces v, returning the zero value of the type for nil.
func (s Base) Get(v any) (any, error) {
	if v == nil {
		return s.T.Zero(), nil
	}
	return Coerce(s.T, v)
}

// Type returns the value type.
func (s Base) Type() Type { return s.T }

// Name returns the scale name.
func (s Base) Name() string { return "scale" }

// Nominal accepts a finite set of terms.
type Nominal struct {
	T     Type
	Terms []any
}

// Get coerces v and checks it is one of the terms. nil stays nil.
func (s Nominal) Get(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	c, err := Coerce(s.T, v)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(s.Terms, c) {
		return nil, fmt.Errorf("value %v is not one of %v", c, s.Terms)
	}
	return c, nil
}

// Type returns the value type.
func (s Nominal) Type() Type { return s.T }

// Name returns the scale name.
func (s Nominal) Name() string { return "nominal" }

// Boolean is a two-term nominal scale.
type Boolean struct{}

// Get coerces v to bool. nil is false.
func (Boolean) Get(v any) (any, error) {
	return ToBool(v)
}

// Type returns the value type.
func (Boolean) Type() Type { return Bool }

// Name returns the scale name.
func (Boolean) Name() string { return "boolean" }

// Ordinal is an ordered set of terms.
type Ordinal struct {
	Terms []string
}

// Get checks v is a term and returns it. nil stays nil.
func (s Ordinal) Get(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	term := fmt.Sprint(v)
	if _, err := s.Rank(term); err != nil {
		return nil, err
	}
	return term, nil
}

// Rank returns the position of term in the ordering.
func (s Ordinal) Rank(term string) (int, error) {
	i := slices.Index(s.Terms, term)
	if i < 0 {
		return 0, fmt.Errorf("term %q is not one of %v", term, s.Terms)
	}
	return i, nil
}

// Type returns the value type.
func (Ordinal) Type() Type { return String }

// Name returns the scale name.
func (Ordinal) Name() string { return "ordinal" }

// Interval clamps numeric values to [Min, Max].
type Interval struct {
	T        Type
	Min, Max float64
}

// Get coerces and clamps v. nil returns Min.
func (s Interval) Get(v any) (any, error) {
	f := s.Min
	if v != nil {
		var err error
		if f, err = ToFloat(v); err != nil {
			return nil, err
		}
		if math.IsNaN(f) {
			return nil, fmt.Errorf("value is not a number")
		}
	}
	f = math.Max(s.Min, math.Min(s.Max, f))
	return Coerce(s.numeric(), f)
}

func (s Interval) numeric() Type {
	if s.T == Int {
		return Int
	}
	return Float
}

// Type returns the value type.
func (s Interval) Type() Type { return s.numeric() }

// Name returns the scale name.
func (Interval) Name() string { return "interval" }

// Ratio is an interval with a true zero and no upper bound.
type Ratio struct {
	T Type
}

func (s Ratio) interval() Interval { return Interval{T: s.T, Min: 0, Max: math.Inf(1)} }

// Get coerces v and floors it at 0.
func (s Ratio) Get(v any) (any, error) { return s.interval().Get(v) }

// Type returns the value type.
func (s Ratio) Type() Type { return s.interval().Type() }

// Name returns the scale name.
func (Ratio) Name() string { return "ratio" }

// Unity is a float ratio between 0 and 1.
type Unity struct{}

// Get coerces v to a float clamped to [0, 1].
func (Unity) Get(v any) (any, error) { return Interval{T: Float, Min: 0, Max: 1}.Get(v) }

// Type returns the value type.
func (Unity) Type() Type { return Float }

// Name returns the scale name.
func (Unity) Name() string { return "unity" }

// Percent is a ratio between 0 and 100, int or float.
type Percent struct {
	T Type
}

// Get coerces v clamped to [0, 100].
func (s Percent) Get(v any) (any, error) { return Interval{T: s.T, Min: 0, Max: 100}.Get(v) }

// Type returns the value type.
func (s Percent) Type() Type { return Interval{T: s.T}.Type() }

// Name returns the scale name.
func (Percent) Name() string { return "percent" }
