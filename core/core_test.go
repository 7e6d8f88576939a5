package core

import (
	"context"
	"os"
	"testing"

	"github.com/huangsam/gradepoint/core/defaultmodel"
	"github.com/huangsam/gradepoint/internal/sqlsource"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCourseEngine opens an in-memory database seeded with the default model course.
func newCourseEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	store, err := sqlsource.Open(ctx, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(-1, zerolog.Nop()))

	f, err := os.Open("defaultmodel/testdata/course.yaml")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, store.LoadFixtures(ctx, f))

	e, err := NewEngine(store, zerolog.Nop(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{defaultmodel.Type}, reg.ModelTypes())
}

func TestEngine_ModelFor(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		scope schema.Scope
	}{
		{"syllabus", schema.Scope{}.Syllabus(1)},
		{"project", schema.Scope{}.Project(100)},
		{"user in project", schema.Scope{}.Project(100).User("alice")},
		{"group", schema.Scope{}.Group(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := e.ModelFor(ctx, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, int64(1), m.SyllabusID())
			assert.Equal(t, defaultmodel.Type, m.Type())
		})
	}
	assert.Equal(t, 1, e.Manager().Cached())

	_, err := e.ModelFor(ctx, schema.Scope{}.User("alice"))
	assert.ErrorIs(t, err, schema.ErrMissedQueryArguments)

	_, err = e.ModelFor(ctx, schema.Scope{}.Project(999))
	assert.ErrorIs(t, err, schema.ErrSource)
}

func TestEngine_ClearCache(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()

	first, err := e.Model(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ClearCache())
	assert.Equal(t, 0, e.ClearCache())

	second, err := e.Model(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestBuildReport(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()
	m, err := e.Model(ctx, 1)
	require.NoError(t, err)

	for _, workers := range []int{1, 4} {
		report, err := BuildReport(ctx, m, 100, workers)
		require.NoError(t, err)
		assert.Equal(t, int64(100), report.ProjectID)
		assert.Equal(t, int64(1), report.SyllabusID)
		assert.Equal(t, defaultmodel.Type, report.Model)
		require.Len(t, report.Ratings, 6, "two developers with three ratings each")

		aliceIndividual := 0.5*15.0/21 + 0.5*0.75
		bobIndividual := 0.5*6.0/21 + 0.5*0.6
		want := []struct {
			user  string
			alias string
			value float64
		}{
			{"alice", defaultmodel.IndividualRatingVar, aliceIndividual},
			{"alice", defaultmodel.ProjectRatingVar, 0.515},
			{"alice", defaultmodel.FinalRatingVar, 0.5*0.515 + 0.5*aliceIndividual},
			{"bob", defaultmodel.IndividualRatingVar, bobIndividual},
			{"bob", defaultmodel.ProjectRatingVar, 0.515},
			{"bob", defaultmodel.FinalRatingVar, 0.5*0.515 + 0.5*bobIndividual},
		}
		for i, w := range want {
			got := report.Ratings[i]
			assert.Equal(t, w.user, got.Username)
			assert.Equal(t, w.alias, got.Alias)
			assert.Equal(t, schema.StatusOK, got.Status, got.Message)
			assert.InDelta(t, w.value, got.Value, 1e-9)
			assert.NotEmpty(t, got.Label)
		}
	}
}

func TestBuildReport_UnknownProject(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()
	m, err := e.Model(ctx, 1)
	require.NoError(t, err)

	report, err := BuildReport(ctx, m, 999, 2)
	require.NoError(t, err)
	assert.Empty(t, report.Ratings)
}

func TestDescribeVariables(t *testing.T) {
	e := newCourseEngine(t)
	m, err := e.Model(context.Background(), 1)
	require.NoError(t, err)

	all := DescribeVariables(m, schema.AreaNone, 0)
	assert.Len(t, all, len(m.Vars()))

	aliases := func(infos []schema.VariableInfo) []string {
		var out []string
		for _, info := range infos {
			out = append(out, info.Alias)
		}
		return out
	}
	milestone := aliases(DescribeVariables(m, schema.AreaNone, schema.ClusterMilestone))
	assert.Contains(t, milestone, defaultmodel.TeamMilestoneGrade)
	assert.NotContains(t, milestone, defaultmodel.ProjectRatingVar)

	group := aliases(DescribeVariables(m, schema.AreaGroup, 0))
	assert.Contains(t, group, defaultmodel.ValidTickets)
	assert.NotContains(t, group, defaultmodel.EarnedRatio)
}

func TestEvaluate(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()
	m, err := e.Model(ctx, 1)
	require.NoError(t, err)
	alice := schema.Scope{}.Project(100).User("alice")

	tests := []struct {
		name   string
		alias  string
		scope  schema.Scope
		status schema.RatingStatus
	}{
		{"ok", defaultmodel.EarnedByTickets, alice, schema.StatusOK},
		{"pending", defaultmodel.TeamMilestoneGrade, alice.WithMilestone("m2"), schema.StatusPending},
		{"not applicable", defaultmodel.EarnedRatio, schema.Scope{}.Project(100), schema.StatusNA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(ctx, m, tt.alias, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status, got.Message)
			assert.Equal(t, tt.alias, got.Alias)
			assert.Equal(t, tt.scope.Area.String(), got.Area)
		})
	}

	_, err = Evaluate(ctx, m, "no_such_variable", alice)
	assert.Error(t, err)
}

func TestSetAndResetConstant(t *testing.T) {
	e := newCourseEngine(t)
	ctx := context.Background()
	m, err := e.Model(ctx, 1)
	require.NoError(t, err)

	info, err := SetConstant(m, defaultmodel.ConstPeerWeight, "0.7")
	require.NoError(t, err)
	assert.Equal(t, 0.7, info.Value)

	// The saved value survives a cache reload
	e.ClearCache()
	m, err = e.Model(ctx, 1)
	require.NoError(t, err)
	c, err := m.Const(defaultmodel.ConstPeerWeight)
	require.NoError(t, err)
	assert.Equal(t, 0.7, c.Get())

	_, err = SetConstant(m, defaultmodel.ConstPeerWeight, "2.5x")
	assert.ErrorIs(t, err, schema.ErrModel)

	info, err = ResetConstant(m, defaultmodel.ConstPeerWeight)
	require.NoError(t, err)
	assert.Equal(t, 0.5, info.Value)

	for _, ci := range DescribeConstants(m) {
		if ci.Alias == defaultmodel.ConstPeerWeight {
			assert.Equal(t, ci.Default, ci.Value)
		}
	}
}
