package contract

import (
	"context"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceAccessor is a mock implementation of SourceAccessor for testing.
type MockSourceAccessor struct {
	mock.Mock
}

var _ SourceAccessor = &MockSourceAccessor{} // Compile-time check

// Tickets implements the SourceAccessor interface.
func (m *MockSourceAccessor) Tickets() TicketQuerySource {
	ret := m.Called()
	src, _ := ret.Get(0).(TicketQuerySource)
	return src
}

// Milestones implements the SourceAccessor interface.
func (m *MockSourceAccessor) Milestones() MilestoneQuerySource {
	ret := m.Called()
	src, _ := ret.Get(0).(MilestoneQuerySource)
	return src
}

// TeamEval implements the SourceAccessor interface.
func (m *MockSourceAccessor) TeamEval() TeamEvalQuerySource {
	ret := m.Called()
	src, _ := ret.Get(0).(TeamEvalQuerySource)
	return src
}

// ProjectForm implements the SourceAccessor interface.
func (m *MockSourceAccessor) ProjectForm() ProjectFormQuerySource {
	ret := m.Called()
	src, _ := ret.Get(0).(ProjectFormQuerySource)
	return src
}

// UserInfo implements the SourceAccessor interface.
func (m *MockSourceAccessor) UserInfo() UserInfoSource {
	ret := m.Called()
	src, _ := ret.Get(0).(UserInfoSource)
	return src
}

// MockTicketSource is a mock implementation of TicketQuerySource for testing.
// Scoping calls are recorded in the embedded ScopeState.
type MockTicketSource struct {
	ScopeState
	mock.Mock
	Filters []expr.Node
}

var _ TicketQuerySource = &MockTicketSource{} // Compile-time check

// Where implements the TicketQuerySource interface.
func (m *MockTicketSource) Where(node expr.Node) { m.Filters = append(m.Filters, node) }

// Only implements the TicketQuerySource interface.
func (m *MockTicketSource) Only(cols ...string) { m.Called(cols) }

// Count implements the TicketQuerySource interface.
func (m *MockTicketSource) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Sum implements the TicketQuerySource interface.
func (m *MockTicketSource) Sum(ctx context.Context, node expr.Node) (float64, error) {
	args := m.Called(ctx, node)
	return args.Get(0).(float64), args.Error(1)
}

// Execute implements the TicketQuerySource interface.
func (m *MockTicketSource) Execute(ctx context.Context) ([]schema.TicketRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]schema.TicketRow)
	return rows, args.Error(1)
}

// MockMilestoneSource is a mock implementation of MilestoneQuerySource for testing.
type MockMilestoneSource struct {
	ScopeState
	mock.Mock
	Props []string
}

var _ MilestoneQuerySource = &MockMilestoneSource{} // Compile-time check

// Include implements the MilestoneQuerySource interface.
func (m *MockMilestoneSource) Include(props ...string) { m.Props = append(m.Props, props...) }

// One implements the MilestoneQuerySource interface.
func (m *MockMilestoneSource) One(ctx context.Context) (schema.Milestone, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Milestone), args.Error(1)
}

// All implements the MilestoneQuerySource interface.
func (m *MockMilestoneSource) All(ctx context.Context) (map[string]schema.Milestone, error) {
	args := m.Called(ctx)
	ms, _ := args.Get(0).(map[string]schema.Milestone)
	return ms, args.Error(1)
}

// MockTeamEvalSource is a mock implementation of TeamEvalQuerySource for testing.
type MockTeamEvalSource struct {
	ScopeState
	mock.Mock
}

var _ TeamEvalQuerySource = &MockTeamEvalSource{} // Compile-time check

// EarnedValues implements the TeamEvalQuerySource interface.
func (m *MockTeamEvalSource) EarnedValues(ctx context.Context, opts schema.TeamEvalOptions) (schema.EarnedValues, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(schema.EarnedValues), args.Error(1)
}

// MockProjectFormSource is a mock implementation of ProjectFormQuerySource for testing.
type MockProjectFormSource struct {
	ScopeState
	mock.Mock
}

var _ ProjectFormQuerySource = &MockProjectFormSource{} // Compile-time check

// Values implements the ProjectFormQuerySource interface.
func (m *MockProjectFormSource) Values(ctx context.Context, criteria []string, allCompleted bool) (map[string]string, error) {
	args := m.Called(ctx, criteria, allCompleted)
	values, _ := args.Get(0).(map[string]string)
	return values, args.Error(1)
}

// Value implements the ProjectFormQuerySource interface.
func (m *MockProjectFormSource) Value(ctx context.Context, criterion string) (string, bool, error) {
	args := m.Called(ctx, criterion)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockUserInfoSource is a mock implementation of UserInfoSource for testing.
type MockUserInfoSource struct {
	ScopeState
	mock.Mock
}

var _ UserInfoSource = &MockUserInfoSource{} // Compile-time check

// TeamSize implements the UserInfoSource interface.
func (m *MockUserInfoSource) TeamSize(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// TeamMembers implements the UserInfoSource interface.
func (m *MockUserInfoSource) TeamMembers(ctx context.Context, role schema.MemberRole) ([]schema.Member, error) {
	args := m.Called(ctx, role)
	members, _ := args.Get(0).([]schema.Member)
	return members, args.Error(1)
}
