package model

import (
	"context"
	"testing"

	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testModel = "test"

// funcVar is an evaluator backed by a closure.
type funcVar struct {
	Meta
	fn func(ctx context.Context, ev *Evaluation) (any, error)
}

func (f funcVar) Evaluate(ctx context.Context, ev *Evaluation) (any, error) { return f.fn(ctx, ev) }

func newFuncVar(alias string, areas schema.Area, clusters schema.Cluster, s scale.Scale, fn func(context.Context, *Evaluation) (any, error)) Constructor {
	return func() Evaluator {
		return funcVar{
			Meta: Meta{Alias: alias, Label: alias, Scale: s, Areas: areas, Clusters: clusters},
			fn:   fn,
		}
	}
}

func testEnums() schema.EnumMap {
	return schema.EnumMap{
		"severity": {
			{Name: "trivial", Weight: 1},
			{Name: "minor", Weight: 2},
			{Name: "major", Weight: 3},
			{Name: "critical", Weight: 5},
			{Name: schema.EnumWildcard, Weight: 3},
		},
		"onlywild": {{Name: schema.EnumWildcard, Weight: 1}},
	}
}

func newTestRegistry(t *testing.T, ctors ...Constructor) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.RegisterModel(Definition{Type: testModel, EnumMap: testEnums()}))
	for _, c := range ctors {
		require.NoError(t, reg.RegisterVariable(testModel, c))
	}
	require.NoError(t, reg.RegisterConstant(testModel, ConstMeta{Alias: "Weight", Scale: scale.Unity{}, Default: 0.4}))
	reg.Freeze()
	return reg
}

func newTestModel(t *testing.T, reg *Registry, cfg contract.ConfigStore, debug bool) *Model {
	t.Helper()
	m, err := New(reg, testModel, 1, Deps{
		Config:  cfg,
		Sources: &contract.MockSourceAccessor{},
		Logger:  zerolog.Nop(),
		Debug:   debug,
	})
	require.NoError(t, err)
	return m
}
