package sqlsource

import (
	"context"
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

type teamEvalQuery struct {
	scoped
}

var _ contract.TeamEvalQuerySource = &teamEvalQuery{} // Compile-time check

type teamEvalRow struct {
	Author   string  `db:"author"`
	Target   string  `db:"target"`
	Value    float64 `db:"value"`
	Approved int64   `db:"approved"`
}

// EarnedValues implements contract.TeamEvalQuerySource.
func (q *teamEvalQuery) EarnedValues(ctx context.Context, opts schema.TeamEvalOptions) (schema.EarnedValues, error) {
	pid, err := q.requireProject("peer evaluation query")
	if err != nil {
		return schema.EarnedValues{}, err
	}
	milestone, err := q.requireMilestone("peer evaluation query")
	if err != nil {
		return schema.EarnedValues{}, err
	}

	if opts.AllCompleted {
		if err := q.checkAllSubmitted(ctx, pid, milestone); err != nil {
			return schema.EarnedValues{}, err
		}
	}

	query := "SELECT author, target, value, approved FROM team_eval WHERE project_id = ? AND milestone = ?"
	args := []any{pid, milestone}
	if q.Scope.Area == schema.AreaUser {
		query += " AND target = ?"
		args = append(args, q.Scope.Username)
	}
	var rows []teamEvalRow
	if err := q.store.db.SelectContext(ctx, &rows, q.store.db.Rebind(query+" ORDER BY target, author"), args...); err != nil {
		return schema.EarnedValues{}, fmt.Errorf("failed to read peer evaluations: %w", err)
	}

	if opts.OnlyApproved {
		approved := rows[:0]
		for _, r := range rows {
			if r.Approved != 0 {
				approved = append(approved, r)
			}
		}
		if len(rows) > 0 && len(approved) == 0 {
			return schema.EarnedValues{}, schema.DataNotReady("peer evaluations of milestone %q are not approved yet", milestone)
		}
		rows = approved
	}

	var out schema.EarnedValues
	switch {
	case q.Scope.Area == schema.AreaUser && opts.WithUsernames:
		out.ByAuthor = make(map[string]float64, len(rows))
		for _, r := range rows {
			out.ByAuthor[r.Author] = r.Value
		}
	case q.Scope.Area == schema.AreaUser:
		for _, r := range rows {
			out.Values = append(out.Values, r.Value)
		}
	default:
		out.ByTarget = make(map[string][]float64)
		for _, r := range rows {
			out.ByTarget[r.Target] = append(out.ByTarget[r.Target], r.Value)
		}
	}
	return out, nil
}

// checkAllSubmitted fails with DataNotReady unless every team member evaluated the milestone.
func (q *teamEvalQuery) checkAllSubmitted(ctx context.Context, pid int64, milestone string) error {
	var missing []string
	query := q.store.db.Rebind(`
		SELECT tm.username FROM team_member tm
		WHERE tm.project_id = ? AND tm.username NOT IN (
			SELECT te.author FROM team_eval te WHERE te.project_id = ? AND te.milestone = ?
		)
		ORDER BY tm.username`)
	if err := q.store.db.SelectContext(ctx, &missing, query, pid, pid, milestone); err != nil {
		return fmt.Errorf("failed to check peer evaluation submissions: %w", err)
	}
	if len(missing) > 0 {
		return schema.DataNotReady("peer evaluations of milestone %q missing from %v", milestone, missing)
	}
	return nil
}
