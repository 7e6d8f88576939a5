package defaultmodel

import (
	"context"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/core/varlib"
	"github.com/huangsam/gradepoint/schema"
)

// milestoneExpertRatingVar reads the expert rating of one milestone.
type milestoneExpertRatingVar struct {
	model.Meta
}

func milestoneExpertRating() model.Evaluator {
	return milestoneExpertRatingVar{Meta: model.Meta{
		Alias:       MilestoneExpertRating,
		Label:       "Milestone expert rating",
		Description: "Expert rating of the milestone",
		Scale:       scale.Unity{},
		Areas:       schema.AreaProject | schema.AreaUser,
		Clusters:    schema.ClusterMilestone,
	}}
}

// Evaluate implements model.Evaluator.
func (m milestoneExpertRatingVar) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	q := ev.Milestones()
	q.Include(schema.PropRating)
	ms, err := q.One(ctx)
	if err != nil {
		return nil, err
	}
	return ms.Rating / 100, nil
}

func milestonesTotal() model.Evaluator {
	return varlib.ProjectMilestones{
		Meta: model.Meta{
			Alias:       MilestonesTotal,
			Label:       "Milestones result",
			Description: "Weighted expert rating of approved milestones",
			Scale:       scale.Unity{},
			Areas:       schema.AreaProject | schema.AreaUser,
			Clusters:    schema.ClusterNone,
		},
		SkipUnapproved: true,
		Process: func(approved []schema.Milestone, totalWeight float64) (any, error) {
			return MilestonesResult(approved, totalWeight)
		},
	}
}

func expertProjectGrade() model.Evaluator {
	return varlib.ProjectCriteria{
		Meta: model.Meta{
			Alias:       ExpertProjectGrade,
			Label:       "Expert project grade",
			Description: "Grade from the expert project evaluation form",
			Scale:       scale.Unity{},
			Areas:       schema.AreaProject | schema.AreaUser,
			Clusters:    schema.ClusterNone,
		},
		AllCompleted: true,
		ProcessResults: func(ev *model.Evaluation, _ []model.Criterion, values map[string]any) (any, error) {
			c, err := scale.ToFloat(values[CriterionCompletion])
			if err != nil {
				return nil, err
			}
			s, err := scale.ToFloat(values[CriterionSwingPractice])
			if err != nil {
				return nil, err
			}
			teamwork, err := scale.ToBool(values[CriterionGoodTeamwork])
			if err != nil {
				return nil, err
			}
			cw, err := ev.Const(ConstExpertCompletionWeight)
			if err != nil {
				return nil, err
			}
			sw, err := ev.Const(ConstExpertSwingWeight)
			if err != nil {
				return nil, err
			}
			return ExpertGrade(c, s, teamwork, cw, sw), nil
		},
	}
}

func projectRating() model.Evaluator {
	return varlib.MultiVars{
		Meta: model.Meta{
			Alias:       ProjectRatingVar,
			Label:       "Project rating",
			Description: "Overall rating of the project",
			Scale:       scale.Unity{},
			Areas:       schema.AreaProject | schema.AreaUser,
			Clusters:    schema.ClusterNone,
		},
		Aliases: []string{Completion, MilestonesTotal, ExpertProjectGrade},
		ProjectLevel: map[string]bool{
			Completion:         true,
			MilestonesTotal:    true,
			ExpertProjectGrade: true,
		},
		Combine: func(_ context.Context, ev *model.Evaluation, values map[string]any) (any, error) {
			f, err := varlib.Floats(values)
			if err != nil {
				return nil, err
			}
			w, err := constWeights(ev, ConstCompletionWeight, ConstMilestonesWeight, ConstExpertWeight)
			if err != nil {
				return nil, err
			}
			return ProjectRating(f[Completion], f[MilestonesTotal], f[ExpertProjectGrade],
				ProjectWeights{Completion: w[0], Milestones: w[1], Expert: w[2]}), nil
		},
	}
}

func individualRating() model.Evaluator {
	return varlib.MultiVars{
		Meta: model.Meta{
			Alias:       IndividualRatingVar,
			Label:       "Individual rating",
			Description: "Rating of the member's own contribution",
			Scale:       scale.Unity{},
			Areas:       schema.AreaUser,
			Clusters:    schema.ClusterNone,
		},
		Aliases: []string{EarnedRatio, TeamPeerRating},
		Combine: func(_ context.Context, ev *model.Evaluation, values map[string]any) (any, error) {
			return weighted(ev, values, EarnedRatio, ConstEarnedWeight, TeamPeerRating, ConstPeerWeight)
		},
	}
}

func finalRating() model.Evaluator {
	return varlib.MultiVars{
		Meta: model.Meta{
			Alias:       FinalRatingVar,
			Label:       "Final rating",
			Description: "Final grade of the member",
			Scale:       scale.Unity{},
			Areas:       schema.AreaUser,
			Clusters:    schema.ClusterNone,
		},
		Aliases: []string{ProjectRatingVar, IndividualRatingVar},
		Combine: func(_ context.Context, ev *model.Evaluation, values map[string]any) (any, error) {
			return weighted(ev, values, ProjectRatingVar, ConstProjectWeight, IndividualRatingVar, ConstIndividualWeight)
		},
	}
}

func weighted(ev *model.Evaluation, values map[string]any, a, wa, b, wb string) (any, error) {
	f, err := varlib.Floats(values)
	if err != nil {
		return nil, err
	}
	w, err := constWeights(ev, wa, wb)
	if err != nil {
		return nil, err
	}
	return Weighted(f[a], w[0], f[b], w[1]), nil
}

func constWeights(ev *model.Evaluation, aliases ...string) ([]float64, error) {
	out := make([]float64, len(aliases))
	for i, alias := range aliases {
		w, err := ev.Const(alias)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}
