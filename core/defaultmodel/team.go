package defaultmodel

import (
	"context"
	"errors"
	"sort"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/core/varlib"
	"github.com/huangsam/gradepoint/schema"
)

// teamDevelopersVar counts the developers of the scoped project.
type teamDevelopersVar struct {
	model.Meta
}

func teamDevelopers() model.Evaluator {
	return teamDevelopersVar{Meta: model.Meta{
		Alias:       TeamDevelopers,
		Label:       "Team developers",
		Description: "Number of team members with the developer role",
		Scale:       scale.Ratio{T: scale.Int},
		Areas:       schema.AreaUser | schema.AreaProject,
		Clusters:    schema.ClusterAll,
	}}
}

// Evaluate implements model.Evaluator.
func (t teamDevelopersVar) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	members, err := ev.UserInfo().TeamMembers(ctx, schema.RoleDeveloper)
	if err != nil {
		return nil, err
	}
	return len(members), nil
}

func earnedByTicketsTarget() model.Evaluator {
	return varlib.MultiVars{
		Meta: model.Meta{
			Alias:       EarnedByTicketsTarget,
			Label:       "Earned by tickets target",
			Description: "Fair share of the project ticket value per developer",
			Scale:       scale.Ratio{T: scale.Float},
			Areas:       schema.AreaUser | schema.AreaProject,
			Clusters:    schema.ClusterAll,
		},
		Aliases:      []string{TicketValues, TeamDevelopers},
		ProjectLevel: map[string]bool{TicketValues: true, TeamDevelopers: true},
		Combine: func(_ context.Context, _ *model.Evaluation, values map[string]any) (any, error) {
			f, err := varlib.Floats(values)
			if err != nil {
				return nil, err
			}
			if f[TeamDevelopers] == 0 {
				return 0.0, nil
			}
			return f[TicketValues] / f[TeamDevelopers], nil
		},
	}
}

func earnedRatio() model.Evaluator {
	return varlib.TwoVarsRatio{
		Meta: model.Meta{
			Alias:       EarnedRatio,
			Label:       "Earned ratio",
			Description: "Earned ticket value against the fair share",
			Scale:       scale.Unity{},
			Areas:       schema.AreaUser,
			Clusters:    schema.ClusterAll,
		},
		Numerator:   EarnedByTickets,
		Denominator: EarnedByTicketsTarget,
	}
}

func teamMilestoneGrade() model.Evaluator {
	return varlib.TeamMilestoneVariable{
		Meta: model.Meta{
			Alias:       TeamMilestoneGrade,
			Label:       "Peer grade of milestone",
			Description: "Peer points received against an even split",
			Scale:       scale.Ratio{T: scale.Float},
			Areas:       schema.AreaUser,
			Clusters:    schema.ClusterMilestone,
		},
		Options:     schema.TeamEvalOptions{OnlyApproved: true, AllCompleted: true},
		SumConstant: ConstTeamMilestoneEvalSum,
		Process: func(results schema.EarnedValues, msum float64, teamSize int) (any, error) {
			return PeerMilestoneGrade(results.Values, msum, teamSize)
		},
	}
}

// teamPeerRatingVar averages the milestone peer grades of a member.
// Milestones without usable peer results are skipped.
type teamPeerRatingVar struct {
	model.Meta
}

func teamPeerRating() model.Evaluator {
	return teamPeerRatingVar{Meta: model.Meta{
		Alias:       TeamPeerRating,
		Label:       "Peer rating",
		Description: "Mean peer grade over evaluated milestones",
		Scale:       scale.Unity{},
		Areas:       schema.AreaUser,
		Clusters:    schema.ClusterNone,
	}}
}

// Evaluate implements model.Evaluator.
func (t teamPeerRatingVar) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	milestones, err := ev.Milestones().All(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(milestones))
	for name := range milestones {
		names = append(names, name)
	}
	sort.Strings(names)

	grade, err := ev.Var(TeamMilestoneGrade)
	if err != nil {
		return nil, err
	}
	var sum float64
	var n int
	pending := false
	for _, name := range names {
		g, err := grade.Milestone(name).Float(ctx)
		switch {
		case model.IsPending(err):
			pending = true
			continue
		case errors.Is(err, schema.ErrVariable):
			continue
		case err != nil:
			return nil, err
		}
		sum += g
		n++
	}
	if n == 0 {
		if pending {
			return nil, schema.DataNotReady("peer evaluations are not complete yet")
		}
		return nil, schema.VariableError("no peer evaluation results")
	}
	return sum / float64(n), nil
}
