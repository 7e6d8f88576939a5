package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// scoped is the scope state shared by every query source.
// Group scoping drops any syllabus key so it is derived from the group
// when the query runs.
type scoped struct {
	contract.ScopeState
	store *Store
}

// Group implements schema.Scoper.
func (s *scoped) Group(id int64) {
	s.ScopeState.Group(id)
	s.Scope.SyllabusID = 0
}

// requireProject returns the scoped project or a missed-arguments error.
func (s *scoped) requireProject(what string) (int64, error) {
	if s.Scope.ProjectID == 0 {
		return 0, schema.MissedQueryArguments("%s needs a project", what)
	}
	return s.Scope.ProjectID, nil
}

// requireMilestone returns the milestone cluster key or a missed-arguments error.
func (s *scoped) requireMilestone(what string) (string, error) {
	if s.Scope.Milestone == "" {
		return "", schema.MissedQueryArguments("%s needs a milestone", what)
	}
	return s.Scope.Milestone, nil
}

// resolveSyllabus fills the syllabus key of a group scope from the database.
func (s *scoped) resolveSyllabus(ctx context.Context) error {
	if s.Scope.SyllabusID != 0 || s.Scope.GroupID == 0 {
		return nil
	}
	var id int64
	err := s.store.db.GetContext(ctx, &id, s.store.db.Rebind("SELECT syllabus_id FROM student_group WHERE id = ?"), s.Scope.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.SourceError("unknown group %d", s.Scope.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve syllabus of group %d: %w", s.Scope.GroupID, err)
	}
	s.Scope.SyllabusID = id
	return nil
}

// areaFilter restricts a project_id column to the projects of the current area.
func (s *scoped) areaFilter(ctx context.Context, projectCol string) (string, []any, error) {
	switch s.Scope.Area {
	case schema.AreaProject:
		return projectCol + " = ?", []any{s.Scope.ProjectID}, nil
	case schema.AreaUser:
		if s.Scope.ProjectID != 0 {
			return projectCol + " = ?", []any{s.Scope.ProjectID}, nil
		}
		return projectCol + " IN (SELECT project_id FROM team_member WHERE username = ?)", []any{s.Scope.Username}, nil
	case schema.AreaGroup:
		if err := s.resolveSyllabus(ctx); err != nil {
			return "", nil, err
		}
		return projectCol + " IN (SELECT id FROM project WHERE group_id = ?)", []any{s.Scope.GroupID}, nil
	case schema.AreaSyllabus:
		return projectCol + " IN (SELECT id FROM project WHERE syllabus_id = ?)", []any{s.Scope.SyllabusID}, nil
	default:
		return "", nil, schema.MissedQueryArguments("query is not scoped to an area")
	}
}
