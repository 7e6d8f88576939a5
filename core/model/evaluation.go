package model

import (
	"context"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// Evaluation is the per-call context handed to an Evaluator.
// Scope is a copy owned by this call.
type Evaluation struct {
	Model *Model
	Scope schema.Scope
	Meta  Meta
}

// Var returns the variable alias scoped like this evaluation.
func (ev *Evaluation) Var(alias string) (Variable, error) {
	v, err := ev.Model.Var(alias)
	if err != nil {
		return Variable{}, schema.WrapModel(err)
	}
	return v.WithScope(ev.Scope), nil
}

// Value evaluates a sibling variable over this evaluation's scope.
func (ev *Evaluation) Value(ctx context.Context, alias string) (any, error) {
	v, err := ev.Var(alias)
	if err != nil {
		return nil, err
	}
	return v.Get(ctx)
}

// Float evaluates a sibling variable and converts it to float64.
func (ev *Evaluation) Float(ctx context.Context, alias string) (float64, error) {
	v, err := ev.Var(alias)
	if err != nil {
		return 0, err
	}
	return v.Float(ctx)
}

// Const returns a constant value as float64.
func (ev *Evaluation) Const(alias string) (float64, error) {
	c, err := ev.Model.Const(alias)
	if err != nil {
		return 0, schema.WrapModel(err)
	}
	return c.Float(), nil
}

// Tickets returns a ticket query scoped like this evaluation.
func (ev *Evaluation) Tickets() contract.TicketQuerySource {
	q := ev.Model.Sources().Tickets()
	schema.ApplyScope(q, ev.Scope)
	return q
}

// Milestones returns a milestone query scoped like this evaluation.
func (ev *Evaluation) Milestones() contract.MilestoneQuerySource {
	q := ev.Model.Sources().Milestones()
	schema.ApplyScope(q, ev.Scope)
	return q
}

// TeamEval returns a peer evaluation query scoped like this evaluation.
func (ev *Evaluation) TeamEval() contract.TeamEvalQuerySource {
	q := ev.Model.Sources().TeamEval()
	schema.ApplyScope(q, ev.Scope)
	return q
}

// ProjectForm returns a project form query scoped like this evaluation.
func (ev *Evaluation) ProjectForm() contract.ProjectFormQuerySource {
	q := ev.Model.Sources().ProjectForm()
	schema.ApplyScope(q, ev.Scope)
	return q
}

// UserInfo returns a team information query scoped like this evaluation.
func (ev *Evaluation) UserInfo() contract.UserInfoSource {
	q := ev.Model.Sources().UserInfo()
	schema.ApplyScope(q, ev.Scope)
	return q
}
