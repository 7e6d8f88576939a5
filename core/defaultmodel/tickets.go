package defaultmodel

import (
	"context"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/core/varlib"
	"github.com/huangsam/gradepoint/schema"
)

// Resolutions that take a ticket out of the planned work.
var invalidResolutions = []any{"invalid", "duplicate", "wontfix"}

// validFilter keeps tickets that are still part of the planned work.
func validFilter() expr.Node {
	return expr.Or(expr.IsNull(expr.Resolution()), expr.Not(expr.In(expr.Resolution(), invalidResolutions...)))
}

// completedFilter keeps tickets closed as done.
func completedFilter() expr.Node {
	return expr.And(expr.Eq(expr.Status(), "closed"), expr.Eq(expr.Resolution(), "done"))
}

const ticketAreas = schema.AreaUser | schema.AreaProject | schema.AreaGroup | schema.AreaSyllabus

func validTickets() model.Evaluator {
	return varlib.CountTickets{
		Meta: model.Meta{
			Alias:       ValidTickets,
			Label:       "Valid tickets",
			Description: "Tickets that are part of the planned work",
			Scale:       scale.Ratio{T: scale.Int},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		TicketFilter: varlib.TicketFilter{Filter: validFilter(), TeamField: expr.Owner(), TeamAllowEmpty: true},
	}
}

func completedTickets() model.Evaluator {
	return varlib.CountTickets{
		Meta: model.Meta{
			Alias:       CompletedTickets,
			Label:       "Completed tickets",
			Description: "Tickets closed as done",
			Scale:       scale.Ratio{T: scale.Int},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		TicketFilter: varlib.TicketFilter{Filter: completedFilter(), TeamField: expr.Owner()},
	}
}

func completion() model.Evaluator {
	return varlib.TwoVarsRatio{
		Meta: model.Meta{
			Alias:       Completion,
			Label:       "Completion",
			Description: "Share of valid tickets that are completed",
			Scale:       scale.Unity{},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		Numerator:   CompletedTickets,
		Denominator: ValidTickets,
	}
}

func ticketValues() model.Evaluator {
	return varlib.SumTickets{
		Meta: model.Meta{
			Alias:       TicketValues,
			Label:       "Ticket values",
			Description: "Total value of valid tickets",
			Scale:       scale.Ratio{T: scale.Float},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		TicketFilter: varlib.TicketFilter{Filter: validFilter(), TeamField: expr.Owner(), TeamAllowEmpty: true},
		Node:         expr.TicketValue(),
	}
}

func earnedByTickets() model.Evaluator {
	return varlib.SumTickets{
		Meta: model.Meta{
			Alias:       EarnedByTickets,
			Label:       "Earned by tickets",
			Description: "Total value of tickets closed as done",
			Scale:       scale.Ratio{T: scale.Float},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		TicketFilter: varlib.TicketFilter{Filter: completedFilter(), TeamField: expr.Owner()},
		Node:         expr.TicketValue(),
	}
}

func completionByValues() model.Evaluator {
	return varlib.TwoVarsRatio{
		Meta: model.Meta{
			Alias:       CompletionByValues,
			Label:       "Completion by values",
			Description: "Share of the valid ticket value that is completed",
			Scale:       scale.Unity{},
			Areas:       ticketAreas,
			Clusters:    schema.ClusterAll,
		},
		Numerator:   EarnedByTickets,
		Denominator: TicketValues,
	}
}

// avgSeverityVar reverts the mean severity weight of completed tickets to a severity name.
type avgSeverityVar struct {
	model.Meta
}

func avgSeverity() model.Evaluator {
	return avgSeverityVar{Meta: model.Meta{
		Alias:       AvgSeverity,
		Label:       "Average severity",
		Description: "Typical severity of completed tickets",
		Scale:       scale.Base{T: scale.String},
		Areas:       ticketAreas,
		Clusters:    schema.ClusterAll,
	}}
}

// Evaluate implements model.Evaluator.
func (a avgSeverityVar) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	q, err := varlib.TicketFilter{Filter: completedFilter(), TeamField: expr.Owner()}.Query(ev)
	if err != nil {
		return nil, err
	}
	q.Only(schema.FieldSeverity)
	rows, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, schema.VariableError("no completed tickets")
	}
	var sum float64
	for _, row := range rows {
		severity, _ := row[schema.FieldSeverity].(string)
		sum += ev.Model.GetEnumValue(schema.EnumSeverity, severity)
	}
	return ev.Model.RevertEnum(schema.EnumSeverity, sum/float64(len(rows)))
}
