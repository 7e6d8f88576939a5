package varlib

import (
	"context"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/schema"
)

// TeamMilestoneVariable aggregates the peer evaluation results of a milestone.
type TeamMilestoneVariable struct {
	model.Meta
	Options schema.TeamEvalOptions

	// SumConstant names the constant holding the total each member distributes.
	SumConstant string

	Process func(results schema.EarnedValues, msum float64, teamSize int) (any, error)
}

// Evaluate implements model.Evaluator.
func (t TeamMilestoneVariable) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	results, err := ev.TeamEval().EarnedValues(ctx, t.Options)
	if err != nil {
		return nil, err
	}
	msum, err := ev.Const(t.SumConstant)
	if err != nil {
		return nil, err
	}
	teamSize, err := ev.UserInfo().TeamSize(ctx)
	if err != nil {
		return nil, err
	}
	return t.Process(results, msum, teamSize)
}
