package expr

import (
	"fmt"
	"testing"

	"github.com/huangsam/gradepoint/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuery resolves fields to t.<name> and records one join per custom field.
type fakeQuery struct {
	project int64
	joins   []string
	seen    map[string]string
}

func newFakeQuery(project int64) *fakeQuery {
	return &fakeQuery{project: project, seen: map[string]string{}}
}

func (q *fakeQuery) ResolveField(name string) (string, error) {
	switch name {
	case "status", "resolution", "owner":
		return "t." + name, nil
	case "unknown":
		return "", fmt.Errorf("unknown field %q", name)
	}
	if col, ok := q.seen[name]; ok {
		return col, nil
	}
	alias := fmt.Sprintf("c%d", len(q.joins))
	q.joins = append(q.joins, name)
	q.seen[name] = alias + ".value"
	return q.seen[name], nil
}

func (q *fakeQuery) ResolveExtra(name string) (string, error) {
	return "x_" + name, nil
}

func (q *fakeQuery) ProjectID() (int64, bool) { return q.project, q.project != 0 }

func (q *fakeQuery) ProjectUsers(pid int64) (Clause, error) {
	return Clause{SQL: "SELECT username FROM team WHERE project_id = ?", Args: []any{pid}}, nil
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		wantSQL  string
		wantArgs []any
	}{
		{
			"closed and done",
			And(Eq(Status(), "closed"), Eq(Resolution(), "done")),
			"((t.status = ?) AND (t.resolution = ?))",
			[]any{"closed", "done"},
		},
		{"or", Or(Eq(Status(), "new"), Ne(Status(), "closed")), "((t.status = ?) OR (t.status <> ?))", []any{"new", "closed"}},
		{"eq nil", Eq(Owner(), nil), "(t.owner IS NULL)", nil},
		{"ne nil", Ne(Owner(), nil), "(NOT (t.owner IS NULL))", nil},
		{"in", In(Status(), "a", "b"), "(t.status IN (?, ?))", []any{"a", "b"}},
		{"empty in", In(Status()), "(1 = 0)", nil},
		{"always", And(), "1 = 1", nil},
		{"single and", And(Eq(Status(), "x")), "(t.status = ?)", []any{"x"}},
		{"count", Count(nil), "COUNT(*)", nil},
		{"sum extra", Sum(TicketValue()), "COALESCE(SUM(x_ticket_value), 0)", nil},
		{"arith", Gt(Mul(Field("status"), 2), Add(Value(1), 3)), "((t.status * ?) > (? + ?))", []any{2, 1, 3}},
		{
			"team",
			InProjectUsers(Owner(), false),
			"(t.owner IN (SELECT username FROM team WHERE project_id = ?))",
			[]any{int64(9)},
		},
		{
			"team allow empty",
			InProjectUsers(Owner(), true),
			"(t.owner IN (SELECT username FROM team WHERE project_id = ?) OR t.owner IS NULL OR t.owner = '')",
			[]any{int64(9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.node.Process(newFakeQuery(9))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, c.SQL)
			assert.Equal(t, tt.wantArgs, c.Args)
		})
	}
}

func TestInProjectUsersNeedsProject(t *testing.T) {
	_, err := InProjectUsers(Owner(), true).Process(newFakeQuery(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMissedQueryArguments)
	assert.ErrorIs(t, err, schema.ErrSource)
}

func TestProcessPropagatesResolveErrors(t *testing.T) {
	_, err := And(Eq(Status(), "x"), Eq(Field("unknown"), 1)).Process(newFakeQuery(1))
	assert.Error(t, err)
}

func TestExpressionReuseAcrossQueries(t *testing.T) {
	filter := And(Eq(Field("points"), 3), Gt(Field("points"), 1), Eq(Field("effort"), "low"))

	q1 := newFakeQuery(1)
	q2 := newFakeQuery(2)

	_, err := filter.Process(q1)
	require.NoError(t, err)
	_, err = filter.Process(q1)
	require.NoError(t, err)
	_, err = filter.Process(q2)
	require.NoError(t, err)

	assert.Equal(t, []string{"points", "effort"}, q1.joins, "joins are registered once per field")
	assert.Equal(t, []string{"points", "effort"}, q2.joins, "each query keeps its own joins")

	team := InProjectUsers(Owner(), false)
	c1, err := team.Process(q1)
	require.NoError(t, err)
	c2, err := team.Process(q2)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, c1.Args)
	assert.Equal(t, []any{int64(2)}, c2.Args)
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, KindInProjectUsers, InProjectUsers(Owner(), false).Kind())
	assert.Equal(t, "binary", Eq(Status(), 1).Kind().String())
}
