package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

type projectFormQuery struct {
	scoped
}

var _ contract.ProjectFormQuerySource = &projectFormQuery{} // Compile-time check

// Values implements contract.ProjectFormQuerySource.
func (q *projectFormQuery) Values(ctx context.Context, criteria []string, allCompleted bool) (map[string]string, error) {
	pid, err := q.requireProject("project form query")
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Criterion string         `db:"criterion"`
		Value     sql.NullString `db:"value"`
	}
	query := q.store.db.Rebind("SELECT criterion, value FROM project_eval WHERE project_id = ?")
	if err := q.store.db.SelectContext(ctx, &rows, query, pid); err != nil {
		return nil, fmt.Errorf("failed to read project form of project %d: %w", pid, err)
	}
	stored := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.Value.Valid && r.Value.String != "" {
			stored[r.Criterion] = r.Value.String
		}
	}

	out := make(map[string]string, len(criteria))
	var missing []string
	for _, c := range criteria {
		v, ok := stored[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		out[c] = v
	}
	if allCompleted && len(missing) > 0 {
		return nil, schema.DataNotReady("project form of project %d is missing %v", pid, missing)
	}
	return out, nil
}

// Value implements contract.ProjectFormQuerySource.
func (q *projectFormQuery) Value(ctx context.Context, criterion string) (string, bool, error) {
	pid, err := q.requireProject("project form query")
	if err != nil {
		return "", false, err
	}
	var v sql.NullString
	query := q.store.db.Rebind("SELECT value FROM project_eval WHERE project_id = ? AND criterion = ?")
	err = q.store.db.GetContext(ctx, &v, query, pid, criterion)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!v.Valid || v.String == "")) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read criterion %q: %w", criterion, err)
	}
	return v.String, true, nil
}
