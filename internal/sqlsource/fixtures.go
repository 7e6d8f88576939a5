package sqlsource

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML seed document of the evaluation database.
type Fixtures struct {
	Syllabi  []SyllabusFixture `yaml:"syllabi" validate:"dive"`
	Groups   []GroupFixture    `yaml:"groups" validate:"dive"`
	Projects []ProjectFixture  `yaml:"projects" validate:"dive"`
}

// SyllabusFixture seeds a syllabus and its configuration.
type SyllabusFixture struct {
	ID     int64                        `yaml:"id" validate:"required,gt=0"`
	Name   string                       `yaml:"name" validate:"required"`
	Config map[string]map[string]string `yaml:"config"`
}

// GroupFixture seeds a student group.
type GroupFixture struct {
	ID         int64  `yaml:"id" validate:"required,gt=0"`
	SyllabusID int64  `yaml:"syllabus_id" validate:"required,gt=0"`
	Name       string `yaml:"name" validate:"required"`
}

// ProjectFixture seeds a project with everything evaluated on it.
type ProjectFixture struct {
	ID          int64              `yaml:"id" validate:"required,gt=0"`
	Name        string             `yaml:"name" validate:"required"`
	GroupID     int64              `yaml:"group_id" validate:"required,gt=0"`
	SyllabusID  int64              `yaml:"syllabus_id" validate:"required,gt=0"`
	Members     []MemberFixture    `yaml:"members" validate:"dive"`
	Milestones  []MilestoneFixture `yaml:"milestones" validate:"dive"`
	Tickets     []TicketFixture    `yaml:"tickets" validate:"dive"`
	TeamEval    []TeamEvalFixture  `yaml:"team_eval" validate:"dive"`
	ProjectEval map[string]string  `yaml:"project_eval"`
}

// MemberFixture seeds a team member.
type MemberFixture struct {
	Username string `yaml:"username" validate:"required"`
	Role     string `yaml:"role" validate:"omitempty,oneof=developer manager"`
}

// MilestoneFixture seeds a milestone.
type MilestoneFixture struct {
	Name      string  `yaml:"name" validate:"required"`
	Weight    float64 `yaml:"weight" validate:"gte=0"`
	Rating    float64 `yaml:"rating" validate:"gte=0,lte=100"`
	Approved  bool    `yaml:"approved"`
	Completed bool    `yaml:"completed"`
}

// TicketFixture seeds a ticket and its custom fields.
type TicketFixture struct {
	ID         int64             `yaml:"id" validate:"required,gt=0"`
	Type       string            `yaml:"type"`
	Priority   string            `yaml:"priority"`
	Severity   string            `yaml:"severity"`
	Status     string            `yaml:"status"`
	Resolution string            `yaml:"resolution"`
	Owner      string            `yaml:"owner"`
	Reporter   string            `yaml:"reporter"`
	Milestone  string            `yaml:"milestone"`
	Summary    string            `yaml:"summary"`
	Custom     map[string]string `yaml:"custom"`
}

// TeamEvalFixture seeds one peer evaluation.
type TeamEvalFixture struct {
	Milestone string  `yaml:"milestone" validate:"required"`
	Author    string  `yaml:"author" validate:"required"`
	Target    string  `yaml:"target" validate:"required"`
	Value     float64 `yaml:"value" validate:"gte=0"`
	Approved  bool    `yaml:"approved"`
}

var fixtureValidate = validator.New()

// ParseFixtures decodes and validates a fixture document.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	if err := fixtureValidate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures inserts a fixture document in one transaction.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) error {
	f, err := ParseFixtures(r)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}

	for _, sy := range f.Syllabi {
		if err := exec("INSERT INTO syllabus (id, name) VALUES (?, ?)", sy.ID, sy.Name); err != nil {
			return fmt.Errorf("failed to seed syllabus %d: %w", sy.ID, err)
		}
		for section, kv := range sy.Config {
			for name, value := range kv {
				if err := exec("INSERT INTO syllabus_config (syllabus_id, section, name, value) VALUES (?, ?, ?, ?)",
					sy.ID, section, name, value); err != nil {
					return fmt.Errorf("failed to seed configuration of syllabus %d: %w", sy.ID, err)
				}
			}
		}
	}
	for _, g := range f.Groups {
		if err := exec("INSERT INTO student_group (id, syllabus_id, name) VALUES (?, ?, ?)", g.ID, g.SyllabusID, g.Name); err != nil {
			return fmt.Errorf("failed to seed group %d: %w", g.ID, err)
		}
	}
	for _, p := range f.Projects {
		if err := seedProject(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to seed project %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fixtures: %w", err)
	}
	return nil
}

func seedProject(ctx context.Context, tx *sqlx.Tx, p ProjectFixture) error {
	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}
	if err := exec("INSERT INTO project (id, name, group_id, syllabus_id) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, p.GroupID, p.SyllabusID); err != nil {
		return err
	}
	for _, m := range p.Members {
		role := m.Role
		if role == "" {
			role = "developer"
		}
		if err := exec("INSERT INTO team_member (project_id, username, role) VALUES (?, ?, ?)", p.ID, m.Username, role); err != nil {
			return err
		}
	}
	for _, m := range p.Milestones {
		if err := exec("INSERT INTO milestone (project_id, name, weight, rating, approved, completed) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, m.Name, m.Weight, m.Rating, boolInt(m.Approved), boolInt(m.Completed)); err != nil {
			return err
		}
	}
	for _, t := range p.Tickets {
		if err := exec(`INSERT INTO ticket (id, project_id, type, priority, severity, status, resolution, owner, reporter, milestone, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, p.ID, nullable(t.Type), nullable(t.Priority), nullable(t.Severity), nullable(t.Status),
			nullable(t.Resolution), nullable(t.Owner), nullable(t.Reporter), nullable(t.Milestone), t.Summary); err != nil {
			return err
		}
		for name, value := range t.Custom {
			if err := exec("INSERT INTO ticket_custom (ticket, name, value) VALUES (?, ?, ?)", t.ID, name, value); err != nil {
				return err
			}
		}
	}
	for _, e := range p.TeamEval {
		if err := exec("INSERT INTO team_eval (project_id, milestone, author, target, value, approved) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, e.Milestone, e.Author, e.Target, e.Value, boolInt(e.Approved)); err != nil {
			return err
		}
	}
	for criterion, value := range p.ProjectEval {
		if err := exec("INSERT INTO project_eval (project_id, criterion, value) VALUES (?, ?, ?)", p.ID, criterion, value); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullable stores empty strings as NULL so unset ticket fields stay unset.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
