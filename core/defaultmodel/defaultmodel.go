// Package defaultmodel is the evaluation package used by syllabi that do not
// select another one. It grades projects from ticket completion, milestone
// ratings and the expert form, and students from earned ticket value and
// peer evaluations.
package defaultmodel

import (
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/schema"
)

// Type is the model type and package name.
const Type = schema.DefaultPackage

// Variable aliases.
const (
	ValidTickets          = "valid_tickets"
	CompletedTickets      = "completed_tickets"
	Completion            = "completion"
	TicketValues          = "ticket_values"
	EarnedByTickets       = "earned_by_tickets"
	CompletionByValues    = "completion_by_values"
	TeamDevelopers        = "team_developers"
	EarnedByTicketsTarget = "earned_by_tickets_target"
	EarnedRatio           = "earned_ratio"
	TeamMilestoneGrade    = "team_milestone_grade"
	TeamPeerRating        = "team_peer_rating"
	AvgSeverity           = "avg_severity"
	MilestoneExpertRating = "milestone_expert_rating"
	MilestonesTotal       = "milestones_total"
	ExpertProjectGrade    = "expert_project_grade"
	ProjectRatingVar      = "project_rating"
	IndividualRatingVar   = "individual_rating"
	FinalRatingVar        = "final_rating"
)

// Constant aliases.
const (
	ConstCompletionWeight       = "completion_weight"
	ConstMilestonesWeight       = "milestones_weight"
	ConstExpertWeight           = "expert_weight"
	ConstEarnedWeight           = "earned_weight"
	ConstPeerWeight             = "peer_weight"
	ConstProjectWeight          = "project_weight"
	ConstIndividualWeight       = "individual_weight"
	ConstTeamMilestoneEvalSum   = "team_milestone_eval_sum"
	ConstExpertCompletionWeight = "expert_completion_weight"
	ConstExpertSwingWeight      = "expert_swing_weight"
)

// Expert form criteria.
const (
	CriterionCompletion    = "completion"
	CriterionSwingPractice = "swing_practice"
	CriterionGoodTeamwork  = "good_teamwork"
)

// Enums maps ticket field values to weights.
func Enums() schema.EnumMap {
	return schema.EnumMap{
		schema.EnumType: {
			{Name: "task", Weight: 1},
			{Name: "bug", Weight: 1},
			{Name: "enhancement", Weight: 1.2},
			{Name: schema.EnumWildcard, Weight: 1},
		},
		schema.EnumPriority: {
			{Name: "trivial", Weight: 1},
			{Name: "minor", Weight: 2},
			{Name: "major", Weight: 3},
			{Name: "critical", Weight: 4},
			{Name: "blocker", Weight: 5},
			{Name: schema.EnumWildcard, Weight: 3},
		},
		schema.EnumSeverity: {
			{Name: "trivial", Weight: 1},
			{Name: "minor", Weight: 2},
			{Name: "normal", Weight: 3},
			{Name: "major", Weight: 4},
			{Name: "critical", Weight: 5},
			{Name: schema.EnumWildcard, Weight: 3},
		},
	}
}

// Definition returns the model definition.
func Definition() model.Definition {
	return model.Definition{
		Type:    Type,
		EnumMap: Enums(),
		Criteria: []model.Criterion{
			{Alias: CriterionCompletion, Order: 1, Label: "Completion", Description: "How much of the agreed scope was delivered, in percent", Scale: scale.Percent{T: scale.Int}},
			{Alias: CriterionSwingPractice, Order: 2, Label: "Swing practice", Description: "Quality of the engineering practice, in percent", Scale: scale.Percent{T: scale.Int}},
			{Alias: CriterionGoodTeamwork, Order: 3, Label: "Good teamwork", Description: "The team worked well together", Scale: scale.Boolean{}},
		},
		Special: model.Special{
			Individual: IndividualRatingVar,
			Project:    ProjectRatingVar,
			Final:      FinalRatingVar,
		},
		Groups: map[string][]string{
			"project": {
				ValidTickets, CompletedTickets, Completion, TicketValues, CompletionByValues,
				MilestonesTotal, ExpertProjectGrade, ProjectRatingVar,
			},
			"individual": {
				EarnedByTickets, EarnedByTicketsTarget, EarnedRatio, TeamPeerRating,
				AvgSeverity, IndividualRatingVar, FinalRatingVar,
			},
			"milestone": {TeamMilestoneGrade, MilestoneExpertRating},
		},
	}
}

func constants() []model.ConstMeta {
	weight := func(alias, label string, def float64) model.ConstMeta {
		return model.ConstMeta{Alias: alias, Label: label, Scale: scale.Unity{}, Default: def}
	}
	return []model.ConstMeta{
		weight(ConstCompletionWeight, "Completion weight in the project rating", 0.1),
		weight(ConstMilestonesWeight, "Milestones weight in the project rating", 0.4),
		weight(ConstExpertWeight, "Expert grade weight in the project rating", 0.5),
		weight(ConstEarnedWeight, "Earned value weight in the individual rating", 0.5),
		weight(ConstPeerWeight, "Peer evaluation weight in the individual rating", 0.5),
		weight(ConstProjectWeight, "Project rating weight in the final rating", 0.5),
		weight(ConstIndividualWeight, "Individual rating weight in the final rating", 0.5),
		{
			Alias:       ConstTeamMilestoneEvalSum,
			Label:       "Peer evaluation points",
			Description: "Points every member distributes among teammates per milestone",
			Scale:       scale.Ratio{T: scale.Float},
			Default:     100.0,
		},
		weight(ConstExpertCompletionWeight, "Completion weight in the expert grade", 0.75),
		weight(ConstExpertSwingWeight, "Swing practice weight in the expert grade", 0.2),
	}
}

// Register adds the default model to r.
func Register(r *model.Registry) error {
	if err := r.RegisterModel(Definition()); err != nil {
		return err
	}
	for _, ctor := range variables() {
		if err := r.RegisterVariable(Type, ctor); err != nil {
			return err
		}
	}
	for _, c := range constants() {
		if err := r.RegisterConstant(Type, c); err != nil {
			return err
		}
	}
	return nil
}

func variables() []model.Constructor {
	return []model.Constructor{
		validTickets,
		completedTickets,
		completion,
		ticketValues,
		earnedByTickets,
		completionByValues,
		teamDevelopers,
		earnedByTicketsTarget,
		earnedRatio,
		teamMilestoneGrade,
		teamPeerRating,
		avgSeverity,
		milestoneExpertRating,
		milestonesTotal,
		expertProjectGrade,
		projectRating,
		individualRating,
		finalRating,
	}
}
