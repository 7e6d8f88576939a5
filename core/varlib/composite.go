package varlib

import (
	"context"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/schema"
)

// TwoVarsRatio divides one sibling variable by another.
// A falsy denominator yields 0.
type TwoVarsRatio struct {
	model.Meta
	Numerator   string
	Denominator string

	// CoerceNumerator casts the numerator to this variable's scale type first.
	// The range is applied to the quotient, not the numerator.
	CoerceNumerator bool
}

// Evaluate implements model.Evaluator.
func (r TwoVarsRatio) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	num, err := ev.Value(ctx, r.Numerator)
	if err != nil {
		return nil, err
	}
	den, err := ev.Value(ctx, r.Denominator)
	if err != nil {
		return nil, err
	}
	if !scale.Truthy(den) {
		return 0.0, nil
	}
	if r.CoerceNumerator {
		if num, err = scale.Coerce(r.Scale.Type(), num); err != nil {
			return nil, schema.WrapModel(err)
		}
	}
	n, err := scale.ToFloat(num)
	if err != nil {
		return nil, schema.WrapModel(err)
	}
	d, err := scale.ToFloat(den)
	if err != nil {
		return nil, schema.WrapModel(err)
	}
	return n / d, nil
}

// MultiVars evaluates several sibling variables and combines their values.
type MultiVars struct {
	model.Meta
	Aliases []string

	// ProjectLevel marks aliases evaluated over the project area
	// instead of this variable's own area.
	ProjectLevel map[string]bool

	// Combine merges the values keyed by alias.
	Combine func(ctx context.Context, ev *model.Evaluation, values map[string]any) (any, error)
}

// Evaluate implements model.Evaluator.
func (m MultiVars) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	values := make(map[string]any, len(m.Aliases))
	for _, alias := range m.Aliases {
		v, err := ev.Var(alias)
		if err != nil {
			return nil, err
		}
		if m.ProjectLevel[alias] {
			v = v.WithScope(ev.Scope.AsProject())
		}
		value, err := v.Get(ctx)
		if err != nil {
			return nil, err
		}
		values[alias] = value
	}
	return m.Combine(ctx, ev, values)
}

// Floats converts combined values to float64, keyed by alias.
func Floats(values map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		f, err := scale.ToFloat(v)
		if err != nil {
			return nil, schema.WrapModel(err)
		}
		out[k] = f
	}
	return out, nil
}
