package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

type milestoneQuery struct {
	scoped
	props map[string]struct{}
}

var _ contract.MilestoneQuerySource = &milestoneQuery{} // Compile-time check

type milestoneRow struct {
	Name      string          `db:"name"`
	Weight    sql.NullFloat64 `db:"weight"`
	Rating    sql.NullFloat64 `db:"rating"`
	Approved  sql.NullInt64   `db:"approved"`
	Completed sql.NullInt64   `db:"completed"`
}

// Include implements contract.MilestoneQuerySource. Unknown properties are ignored.
func (q *milestoneQuery) Include(props ...string) {
	if q.props == nil {
		q.props = make(map[string]struct{})
	}
	for _, p := range props {
		if _, ok := schema.ValidMilestoneProps[p]; ok {
			q.props[p] = struct{}{}
		}
	}
}

// One implements contract.MilestoneQuerySource.
func (q *milestoneQuery) One(ctx context.Context) (schema.Milestone, error) {
	pid, err := q.requireProject("milestone query")
	if err != nil {
		return schema.Milestone{}, err
	}
	name, err := q.requireMilestone("milestone query")
	if err != nil {
		return schema.Milestone{}, err
	}
	var row milestoneRow
	query := q.store.db.Rebind("SELECT name, weight, rating, approved, completed FROM milestone WHERE project_id = ? AND name = ?")
	err = q.store.db.GetContext(ctx, &row, query, pid, name)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Milestone{}, schema.SourceError("project %d has no milestone %q", pid, name)
	}
	if err != nil {
		return schema.Milestone{}, fmt.Errorf("failed to read milestone %q: %w", name, err)
	}
	return q.convert(row), nil
}

// All implements contract.MilestoneQuerySource.
func (q *milestoneQuery) All(ctx context.Context) (map[string]schema.Milestone, error) {
	pid, err := q.requireProject("milestone query")
	if err != nil {
		return nil, err
	}
	var rows []milestoneRow
	query := q.store.db.Rebind("SELECT name, weight, rating, approved, completed FROM milestone WHERE project_id = ? ORDER BY name")
	if err := q.store.db.SelectContext(ctx, &rows, query, pid); err != nil {
		return nil, fmt.Errorf("failed to read milestones of project %d: %w", pid, err)
	}
	out := make(map[string]schema.Milestone, len(rows))
	for _, r := range rows {
		out[r.Name] = q.convert(r)
	}
	return out, nil
}

// convert keeps only the included properties; with none included every property is kept.
func (q *milestoneQuery) convert(r milestoneRow) schema.Milestone {
	want := func(p string) bool {
		if len(q.props) == 0 {
			return true
		}
		_, ok := q.props[p]
		return ok
	}
	m := schema.Milestone{Name: r.Name}
	if want(schema.PropWeight) {
		m.Weight = r.Weight.Float64
	}
	if want(schema.PropRating) {
		m.Rating = r.Rating.Float64
	}
	if want(schema.PropApproved) {
		m.Approved = r.Approved.Int64 != 0
	}
	if want(schema.PropCompleted) {
		m.Completed = r.Completed.Int64 != 0
	}
	return m
}
