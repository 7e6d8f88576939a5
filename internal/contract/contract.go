// Package contract provides the collaborator interfaces of the evaluation engine and shared utilities.
package contract

import (
	"context"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/schema"
)

// ConfigStore is the configuration of one syllabus.
// Set only stages a value; Save commits staged values.
type ConfigStore interface {
	Get(section, key, def string) string
	Set(section, key, value string) error
	Save() error
}

// ConfigProvider hands out per-syllabus configuration stores.
type ConfigProvider interface {
	ForSyllabus(ctx context.Context, syllabusID int64) (ConfigStore, error)
}

// TicketQuerySource builds and runs an aggregate query over tickets.
// It is scoped through the schema.Scoper methods before any terminal call.
type TicketQuerySource interface {
	schema.Scoper

	// Where adds a filter. Filters are combined with AND.
	Where(node expr.Node)

	// Only restricts the columns returned by Execute.
	Only(cols ...string)

	// Count returns the number of matching tickets.
	Count(ctx context.Context) (int64, error)

	// Sum returns the sum of node over matching tickets.
	Sum(ctx context.Context, node expr.Node) (float64, error)

	// Execute returns the matching tickets.
	Execute(ctx context.Context) ([]schema.TicketRow, error)
}

// MilestoneQuerySource reads milestone properties.
type MilestoneQuerySource interface {
	schema.Scoper

	// Include selects the properties to read (see schema.Prop*).
	Include(props ...string)

	// One returns the milestone named by the milestone cluster key.
	One(ctx context.Context) (schema.Milestone, error)

	// All returns every milestone of the scoped project, keyed by name.
	All(ctx context.Context) (map[string]schema.Milestone, error)
}

// TeamEvalQuerySource reads peer evaluation results for a milestone.
type TeamEvalQuerySource interface {
	schema.Scoper

	// EarnedValues returns the results allowed by opts.
	// It fails with schema.ErrDataNotReady when opts' preconditions are unmet.
	EarnedValues(ctx context.Context, opts schema.TeamEvalOptions) (schema.EarnedValues, error)
}

// ProjectFormQuerySource reads expert project evaluation forms.
type ProjectFormQuerySource interface {
	schema.Scoper

	// Values returns the raw values of criteria keyed by criterion alias.
	// With allCompleted, a missing criterion fails with schema.ErrDataNotReady.
	Values(ctx context.Context, criteria []string, allCompleted bool) (map[string]string, error)

	// Value returns one criterion value.
	Value(ctx context.Context, criterion string) (string, bool, error)
}

// UserInfoSource reads project team information.
type UserInfoSource interface {
	schema.Scoper

	// TeamSize returns the number of members of the scoped project.
	TeamSize(ctx context.Context) (int, error)

	// TeamMembers lists members with role, or every member when role is empty.
	TeamMembers(ctx context.Context, role schema.MemberRole) ([]schema.Member, error)
}

// SourceAccessor hands out fresh, unscoped query sources.
type SourceAccessor interface {
	Tickets() TicketQuerySource
	Milestones() MilestoneQuerySource
	TeamEval() TeamEvalQuerySource
	ProjectForm() ProjectFormQuerySource
	UserInfo() UserInfoSource
}

// SourceFactory builds the source accessor of a model.
// The enum map drives computed ticket attributes such as the ticket value.
type SourceFactory interface {
	ForModel(enums schema.EnumMap) SourceAccessor
}
