package varlib

import (
	"context"
	"sort"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/schema"
)

// ProjectCriteria aggregates the expert evaluation form of a project.
type ProjectCriteria struct {
	model.Meta

	// AllCompleted requires every selected criterion to be filled in.
	AllCompleted bool

	// ProcessCriteria selects the criteria to read. Nil keeps all of them.
	ProcessCriteria func(criteria []model.Criterion) []model.Criterion

	// ProcessResults computes the value from form values scaled per criterion.
	ProcessResults func(ev *model.Evaluation, criteria []model.Criterion, values map[string]any) (any, error)
}

// Evaluate implements model.Evaluator.
func (p ProjectCriteria) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	criteria := ev.Model.Criteria()
	if p.ProcessCriteria != nil {
		criteria = p.ProcessCriteria(criteria)
	}
	aliases := make([]string, 0, len(criteria))
	for _, c := range criteria {
		aliases = append(aliases, c.Alias)
	}
	raw, err := ev.ProjectForm().Values(ctx, aliases, p.AllCompleted)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(criteria))
	for _, c := range criteria {
		var in any
		if s, ok := raw[c.Alias]; ok {
			in = s
		}
		v, err := c.Scale.Get(in)
		if err != nil {
			return nil, schema.ModelError("criterion %q holds invalid value %q: %v", c.Alias, raw[c.Alias], err)
		}
		values[c.Alias] = v
	}
	return p.ProcessResults(ev, criteria, values)
}

// ProjectMilestones aggregates the milestones of a project.
type ProjectMilestones struct {
	model.Meta
	SkipIncomplete bool
	SkipUnapproved bool

	// Process receives the kept milestones sorted by name and the
	// weight of all milestones, skipped ones included.
	Process func(milestones []schema.Milestone, totalWeight float64) (any, error)
}

// Evaluate implements model.Evaluator.
func (p ProjectMilestones) Evaluate(ctx context.Context, ev *model.Evaluation) (any, error) {
	q := ev.Milestones()
	q.Include(schema.PropWeight, schema.PropRating, schema.PropApproved, schema.PropCompleted)
	all, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	var total float64
	kept := make([]schema.Milestone, 0, len(all))
	for _, m := range all {
		total += m.Weight
		if p.SkipIncomplete && !m.Completed {
			continue
		}
		if p.SkipUnapproved && !m.Approved {
			continue
		}
		kept = append(kept, m)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	return p.Process(kept, total)
}
