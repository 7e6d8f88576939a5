package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/schema"
	"golang.org/x/sync/errgroup"
)

// BuildReport evaluates the headline ratings of every developer of a project.
//
// Members are evaluated concurrently, at most workers at a time. A rating that
// cannot be computed is reported with its status instead of failing the report,
// so only infrastructure failures (such as listing the team) return an error.
func BuildReport(ctx context.Context, m *model.Model, projectID int64, workers int) (*schema.Report, error) {
	start := time.Now()
	users := m.Sources().UserInfo()
	users.Project(projectID)
	members, err := users.TeamMembers(ctx, schema.RoleDeveloper)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers of project %d: %w", projectID, err)
	}

	special := m.Special()
	aliases := []string{special.Individual, special.Project, special.Final}
	vars := make([]model.Variable, len(aliases))
	for i, alias := range aliases {
		if vars[i], err = m.Var(alias); err != nil {
			return nil, fmt.Errorf("model %q has no rating %q: %w", m.Type(), alias, err)
		}
	}

	// Every member writes into its own slot, no locking needed
	slots := make([][]schema.Rating, len(members))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, member := range members {
		g.Go(func() error {
			slots[i] = rateMember(gctx, vars, projectID, member.Username)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ratings []schema.Rating
	for _, s := range slots {
		ratings = append(ratings, s...)
	}
	order := make(map[string]int, len(aliases))
	for i, alias := range aliases {
		order[alias] = i
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		if ratings[i].Username != ratings[j].Username {
			return ratings[i].Username < ratings[j].Username
		}
		return order[ratings[i].Alias] < order[ratings[j].Alias]
	})

	lg := m.Logger()
	lg.Info().
		Int64("project", projectID).
		Int("members", len(members)).
		Dur("took", time.Since(start)).
		Msg("Built rating report")
	return &schema.Report{
		ProjectID:  projectID,
		SyllabusID: m.SyllabusID(),
		Model:      m.Type(),
		Ratings:    ratings,
		Took:       time.Since(start),
	}, nil
}

func rateMember(ctx context.Context, vars []model.Variable, projectID int64, username string) []schema.Rating {
	out := make([]schema.Rating, 0, len(vars))
	for _, v := range vars {
		value, err := v.Project(projectID).User(username).Float(ctx)
		r := schema.Rating{
			ProjectID: projectID,
			Username:  username,
			Alias:     v.Alias(),
			Label:     v.Info().Label,
			Value:     value,
			Status:    model.Outcome(err),
		}
		if err != nil {
			r.Message = err.Error()
		}
		out = append(out, r)
	}
	return out
}
