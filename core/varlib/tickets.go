// Package varlib holds reusable variable archetypes that model packages
// configure into concrete variables.
package varlib

import (
	"context"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// TicketFilter is the query pipeline shared by the ticket archetypes.
type TicketFilter struct {
	// Filter is the declared ticket filter. Nil matches every ticket.
	Filter expr.Node

	// TeamField restricts project area queries to tickets whose field
	// holds a member of the project team. Nil disables the restriction.
	TeamField expr.Node

	// TeamAllowEmpty lets tickets with an empty TeamField through the team restriction.
	TeamAllowEmpty bool

	// ExtraFilter is called last and may add filters that depend on the evaluation.
	ExtraFilter func(ev *model.Evaluation, q contract.TicketQuerySource) error
}

// Query returns a ticket query scoped like ev with the pipeline applied.
func (f TicketFilter) Query(ev *model.Evaluation) (contract.TicketQuerySource, error) {
	q := ev.Tickets()
	if f.Filter != nil {
		q.Where(f.Filter)
	}
	if f.TeamField != nil && ev.Scope.Area == schema.AreaProject {
		q.Where(expr.InProjectUsers(f.TeamField, f.TeamAllowEmpty))
	}
	if f.ExtraFilter != nil {
		if err := f.ExtraFilter(ev, q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// CountTickets counts the tickets matching its filter.
type CountTickets struct {
	model.Meta
	TicketFilter
}

// Evaluate implements model.Evaluator.
func (c CountTickets) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	q, err := c.Query(ev)
	if err != nil {
		return nil, err
	}
	return q.Count(ctx)
}

// SumTickets sums an expression over the tickets matching its filter.
type SumTickets struct {
	model.Meta
	TicketFilter

	// Node is the summed expression, usually expr.TicketValue().
	Node expr.Node
}

// Evaluate implements model.Evaluator.
func (s SumTickets) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	q, err := s.Query(ev)
	if err != nil {
		return nil, err
	}
	return q.Sum(ctx, s.Node)
}
