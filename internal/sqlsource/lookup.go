package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gradepoint/schema"
)

// ProjectSyllabus returns the syllabus a project is taught under.
func (s *Store) ProjectSyllabus(ctx context.Context, projectID int64) (int64, error) {
	return s.lookupSyllabus(ctx, "SELECT syllabus_id FROM project WHERE id = ?", "project", projectID)
}

// GroupSyllabus returns the syllabus a student group follows.
func (s *Store) GroupSyllabus(ctx context.Context, groupID int64) (int64, error) {
	return s.lookupSyllabus(ctx, "SELECT syllabus_id FROM student_group WHERE id = ?", "group", groupID)
}

func (s *Store) lookupSyllabus(ctx context.Context, query, what string, id int64) (int64, error) {
	var syllabusID int64
	err := s.db.GetContext(ctx, &syllabusID, s.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, schema.SourceError("unknown %s %d", what, id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve syllabus of %s %d: %w", what, id, err)
	}
	return syllabusID, nil
}
