package varlib

import (
	"context"
	"testing"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testModel = "varlib"

type stubVar struct {
	model.Meta
	fn func(ev *model.Evaluation) any
}

func (s stubVar) Evaluate(_ context.Context, ev *model.Evaluation) (any, error) { return s.fn(ev), nil }

func stub(alias string, s scale.Scale, fn func(ev *model.Evaluation) any) model.Constructor {
	return func() model.Evaluator {
		return stubVar{Meta: meta(alias, s), fn: fn}
	}
}

func fixed(alias string, v any) model.Constructor {
	return stub(alias, scale.Base{}, func(*model.Evaluation) any { return v })
}

func meta(alias string, s scale.Scale) model.Meta {
	return model.Meta{Alias: alias, Label: alias, Scale: s, Areas: schema.AreaAll, Clusters: schema.ClusterAll}
}

func newModel(t *testing.T, acc *contract.MockSourceAccessor, criteria []model.Criterion, ctors ...model.Constructor) *model.Model {
	t.Helper()
	reg := model.NewRegistry()
	require.NoError(t, reg.RegisterModel(model.Definition{Type: testModel, Criteria: criteria}))
	for _, c := range ctors {
		require.NoError(t, reg.RegisterVariable(testModel, c))
	}
	require.NoError(t, reg.RegisterConstant(testModel, model.ConstMeta{Alias: "team_sum", Scale: scale.Ratio{T: scale.Float}, Default: 100.0}))
	reg.Freeze()
	m, err := model.New(reg, testModel, 1, model.Deps{Sources: acc, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return m
}

func get(t *testing.T, m *model.Model, alias string, scope schema.Scope) (any, error) {
	t.Helper()
	v, err := m.Var(alias)
	require.NoError(t, err)
	return v.WithScope(scope).Get(context.Background())
}

func TestCountTickets(t *testing.T) {
	count := func() model.Evaluator {
		return CountTickets{
			Meta: meta("open", scale.Ratio{T: scale.Int}),
			TicketFilter: TicketFilter{
				Filter:    expr.Eq(expr.Status(), "new"),
				TeamField: expr.Owner(),
				ExtraFilter: func(ev *model.Evaluation, q contract.TicketQuerySource) error {
					q.Where(expr.Eq(expr.Reporter(), ev.Scope.Username))
					return nil
				},
			},
		}
	}

	tests := []struct {
		name        string
		scope       schema.Scope
		wantFilters int
	}{
		{"project adds team filter", schema.Scope{}.Project(7), 3},
		{"user skips team filter", schema.Scope{}.Project(7).User("alice"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &contract.MockTicketSource{}
			src.On("Count", mock.Anything).Return(int64(4), nil)
			acc := &contract.MockSourceAccessor{}
			acc.On("Tickets").Return(src)

			m := newModel(t, acc, nil, count)
			got, err := get(t, m, "open", tt.scope)
			require.NoError(t, err)
			assert.Equal(t, int64(4), got)
			assert.Len(t, src.Filters, tt.wantFilters)
			assert.Equal(t, tt.scope, src.Scope)
			if tt.wantFilters == 3 {
				assert.Equal(t, expr.InProjectUsers(expr.Owner(), false), src.Filters[1])
			}
		})
	}
}

func TestSumTickets(t *testing.T) {
	src := &contract.MockTicketSource{}
	src.On("Sum", mock.Anything, expr.TicketValue()).Return(42.0, nil)
	acc := &contract.MockSourceAccessor{}
	acc.On("Tickets").Return(src)

	m := newModel(t, acc, nil, func() model.Evaluator {
		return SumTickets{Meta: meta("value", scale.Ratio{T: scale.Float}), Node: expr.TicketValue()}
	})
	got, err := get(t, m, "value", schema.Scope{}.Group(3))
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
	assert.Empty(t, src.Filters)
	src.AssertExpectations(t)
}

func TestCountTickets_SourceError(t *testing.T) {
	src := &contract.MockTicketSource{}
	src.On("Count", mock.Anything).Return(int64(0), schema.MissedQueryArguments("no project"))
	acc := &contract.MockSourceAccessor{}
	acc.On("Tickets").Return(src)

	m := newModel(t, acc, nil, func() model.Evaluator {
		return CountTickets{Meta: meta("all", scale.Ratio{T: scale.Int})}
	})
	_, err := get(t, m, "all", schema.Scope{}.Project(1))
	assert.ErrorIs(t, err, schema.ErrMissedQueryArguments)
}

func TestTwoVarsRatio(t *testing.T) {
	tests := []struct {
		name   string
		num    any
		den    any
		coerce bool
		want   float64
	}{
		{"plain", int64(1), int64(4), false, 0.25},
		{"zero denominator", int64(3), int64(0), false, 0},
		{"nil denominator", int64(3), nil, false, 0},
		{"result clamped", int64(3), int64(2), false, 1},
		{"coerced numerator keeps its magnitude", int64(3), int64(4), true, 0.75},
		{"coerced quotient clamped", int64(3), int64(2), true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, &contract.MockSourceAccessor{}, nil,
				fixed("num", tt.num),
				fixed("den", tt.den),
				func() model.Evaluator {
					return TwoVarsRatio{
						Meta:            meta("ratio", scale.Unity{}),
						Numerator:       "num",
						Denominator:     "den",
						CoerceNumerator: tt.coerce,
					}
				},
			)
			got, err := get(t, m, "ratio", schema.Scope{}.Project(1))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMultiVars_ProjectLevel(t *testing.T) {
	area := func(ev *model.Evaluation) any { return ev.Scope.Area.String() }
	var seen map[string]any
	m := newModel(t, &contract.MockSourceAccessor{}, nil,
		stub("own", scale.Base{T: scale.String}, area),
		stub("team", scale.Base{T: scale.String}, area),
		func() model.Evaluator {
			return MultiVars{
				Meta:         meta("combined", scale.Base{T: scale.Int}),
				Aliases:      []string{"own", "team"},
				ProjectLevel: map[string]bool{"team": true},
				Combine: func(_ context.Context, _ *model.Evaluation, values map[string]any) (any, error) {
					seen = values
					return len(values), nil
				},
			}
		},
	)
	got, err := get(t, m, "combined", schema.Scope{}.Project(1).User("alice"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
	assert.Equal(t, map[string]any{"own": "user", "team": "project"}, seen)
}

func TestFloats(t *testing.T) {
	got, err := Floats(map[string]any{"a": int64(2), "b": 0.5, "c": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 2, "b": 0.5, "c": 1}, got)

	_, err = Floats(map[string]any{"bad": "x"})
	assert.ErrorIs(t, err, schema.ErrModel)
}

func TestTeamMilestoneVariable(t *testing.T) {
	opts := schema.TeamEvalOptions{OnlyApproved: true}
	te := &contract.MockTeamEvalSource{}
	te.On("EarnedValues", mock.Anything, opts).Return(schema.EarnedValues{Values: []float64{40, 30}}, nil)
	ui := &contract.MockUserInfoSource{}
	ui.On("TeamSize", mock.Anything).Return(3, nil)
	acc := &contract.MockSourceAccessor{}
	acc.On("TeamEval").Return(te)
	acc.On("UserInfo").Return(ui)

	m := newModel(t, acc, nil, func() model.Evaluator {
		return TeamMilestoneVariable{
			Meta:        meta("peer", scale.Ratio{T: scale.Float}),
			Options:     opts,
			SumConstant: "team_sum",
			Process: func(results schema.EarnedValues, msum float64, teamSize int) (any, error) {
				var sum float64
				for _, v := range results.Values {
					sum += v
				}
				return sum / msum * float64(teamSize), nil
			},
		}
	})
	scope := schema.Scope{}.Project(5).User("alice").WithMilestone("m1")
	got, err := get(t, m, "peer", scope)
	require.NoError(t, err)
	assert.InDelta(t, 2.1, got, 1e-9)
	assert.Equal(t, scope, te.Scope)
}

func TestTeamMilestoneVariable_NotReady(t *testing.T) {
	te := &contract.MockTeamEvalSource{}
	te.On("EarnedValues", mock.Anything, mock.Anything).Return(schema.EarnedValues{}, schema.DataNotReady("waiting"))
	acc := &contract.MockSourceAccessor{}
	acc.On("TeamEval").Return(te)

	m := newModel(t, acc, nil, func() model.Evaluator {
		return TeamMilestoneVariable{Meta: meta("peer", scale.Ratio{T: scale.Float}), SumConstant: "team_sum"}
	})
	_, err := get(t, m, "peer", schema.Scope{}.Project(5).WithMilestone("m1"))
	assert.True(t, model.IsPending(err))
}

func TestProjectCriteria(t *testing.T) {
	criteria := []model.Criterion{
		{Alias: "teamwork", Order: 2, Scale: scale.Boolean{}},
		{Alias: "completion", Order: 1, Scale: scale.Percent{T: scale.Float}},
	}
	form := &contract.MockProjectFormSource{}
	form.On("Values", mock.Anything, []string{"completion", "teamwork"}, true).
		Return(map[string]string{"completion": "150", "teamwork": "true"}, nil)
	acc := &contract.MockSourceAccessor{}
	acc.On("ProjectForm").Return(form)

	var got map[string]any
	m := newModel(t, acc, criteria, func() model.Evaluator {
		return ProjectCriteria{
			Meta:         meta("form", scale.Base{T: scale.Int}),
			AllCompleted: true,
			ProcessResults: func(_ *model.Evaluation, _ []model.Criterion, values map[string]any) (any, error) {
				got = values
				return len(values), nil
			},
		}
	})
	_, err := get(t, m, "form", schema.Scope{}.Project(1))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"completion": 100.0, "teamwork": true}, got)
}

func TestProjectCriteria_InvalidValue(t *testing.T) {
	form := &contract.MockProjectFormSource{}
	form.On("Values", mock.Anything, []string{"completion"}, false).
		Return(map[string]string{"completion": "lots"}, nil)
	acc := &contract.MockSourceAccessor{}
	acc.On("ProjectForm").Return(form)

	m := newModel(t, acc, []model.Criterion{{Alias: "completion", Scale: scale.Percent{T: scale.Float}}}, func() model.Evaluator {
		return ProjectCriteria{
			Meta: meta("form", scale.Base{}),
			ProcessResults: func(*model.Evaluation, []model.Criterion, map[string]any) (any, error) {
				return nil, nil
			},
		}
	})
	_, err := get(t, m, "form", schema.Scope{}.Project(1))
	assert.ErrorIs(t, err, schema.ErrModel)
}

func TestProjectMilestones(t *testing.T) {
	ms := map[string]schema.Milestone{
		"m2": {Name: "m2", Weight: 2, Rating: 60, Completed: true},
		"m1": {Name: "m1", Weight: 1, Rating: 80, Approved: true, Completed: true},
		"m3": {Name: "m3", Weight: 3, Approved: true},
	}
	tests := []struct {
		name           string
		skipIncomplete bool
		skipUnapproved bool
		want           []string
	}{
		{"keep all", false, false, []string{"m1", "m2", "m3"}},
		{"skip incomplete", true, false, []string{"m1", "m2"}},
		{"skip unapproved", false, true, []string{"m1", "m3"}},
		{"skip both", true, true, []string{"m1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &contract.MockMilestoneSource{}
			src.On("All", mock.Anything).Return(ms, nil)
			acc := &contract.MockSourceAccessor{}
			acc.On("Milestones").Return(src)

			var names []string
			var total float64
			m := newModel(t, acc, nil, func() model.Evaluator {
				return ProjectMilestones{
					Meta:           meta("ms", scale.Base{}),
					SkipIncomplete: tt.skipIncomplete,
					SkipUnapproved: tt.skipUnapproved,
					Process: func(kept []schema.Milestone, totalWeight float64) (any, error) {
						for _, k := range kept {
							names = append(names, k.Name)
						}
						total = totalWeight
						return nil, nil
					},
				}
			})
			_, err := get(t, m, "ms", schema.Scope{}.Project(1))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
			assert.Equal(t, 6.0, total)
			assert.ElementsMatch(t, []string{schema.PropWeight, schema.PropRating, schema.PropApproved, schema.PropCompleted}, src.Props)
		})
	}
}
