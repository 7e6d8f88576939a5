package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/schema"
)

// Variable is a model variable bound to a scope.
// It is a value: scoping methods return a new Variable and never modify the receiver.
type Variable struct {
	model *Model
	eval  Evaluator
	scope schema.Scope
}

// Info returns the variable metadata.
func (v Variable) Info() Meta { return v.eval.Info() }

// Alias returns the variable alias.
func (v Variable) Alias() string { return v.eval.Info().Alias }

// Scope returns the current scope.
func (v Variable) Scope() schema.Scope { return v.scope }

// Project scopes the variable to a project.
func (v Variable) Project(id int64) Variable { v.scope = v.scope.Project(id); return v }

// User scopes the variable to a user.
func (v Variable) User(username string) Variable { v.scope = v.scope.User(username); return v }

// Group scopes the variable to a student group.
func (v Variable) Group(id int64) Variable { v.scope = v.scope.Group(id); return v }

// Syllabus scopes the variable to a syllabus.
func (v Variable) Syllabus(id int64) Variable { v.scope = v.scope.Syllabus(id); return v }

// Milestone sets the milestone cluster key.
func (v Variable) Milestone(name string) Variable { v.scope = v.scope.WithMilestone(name); return v }

// WithScope returns v evaluated over s.
func (v Variable) WithScope(s schema.Scope) Variable { v.scope = s; return v }

// Adopt returns v with the scope of other.
func (v Variable) Adopt(other Variable) Variable { return v.WithScope(other.scope) }

// Get evaluates the variable and returns its scaled value.
//
// Errors of the evaluation taxonomy come back unchanged. Other errors, and
// panics raised by evaluators, are wrapped into a schema.ErrModel unless the
// model runs in debug mode.
func (v Variable) Get(ctx context.Context) (value any, err error) {
	meta := v.eval.Info()
	logger := v.model.Logger()
	start := time.Now()
	defer func() {
		observeEvaluation(meta.Alias, err, time.Since(start))
		logger.Debug().
			Str("alias", meta.Alias).
			Str("area", v.scope.Area.String()).
			Int64("project", v.scope.ProjectID).
			Str("user", v.scope.Username).
			Str("milestone", v.scope.Milestone).
			Dur("took", time.Since(start)).
			AnErr("error", err).
			Msg("Evaluated variable")
	}()

	if !meta.Areas.Has(v.scope.Area) {
		return nil, schema.VariableError("variable %q does not support area %s (supported: %s)",
			meta.Alias, v.scope.Area, meta.Areas)
	}
	if !meta.Clusters.Has(schema.ClusterNone) && !hasSupportedCluster(v.scope, meta.Clusters) {
		return nil, schema.VariableError("variable %q requires a %s cluster key", meta.Alias, meta.Clusters)
	}

	if v.model.Debug() {
		return v.evaluate(ctx, meta)
	}

	defer func() {
		if r := recover(); r != nil {
			value, err = nil, schema.WrapModel(fmt.Errorf("variable %q panicked: %v", meta.Alias, r))
		}
	}()
	value, err = v.evaluate(ctx, meta)
	return value, schema.WrapModel(err)
}

// Float evaluates the variable and converts the result to float64.
func (v Variable) Float(ctx context.Context) (float64, error) {
	raw, err := v.Get(ctx)
	if err != nil {
		return 0, err
	}
	f, err := scale.ToFloat(raw)
	if err != nil {
		return 0, schema.WrapModel(err)
	}
	return f, nil
}

func (v Variable) evaluate(ctx context.Context, meta Meta) (any, error) {
	ev := &Evaluation{Model: v.model, Scope: v.scope, Meta: meta}
	raw, err := v.eval.Evaluate(ctx, ev)
	if err != nil {
		return nil, err
	}
	out, err := meta.Scale.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", meta.Alias, err)
	}
	return out, nil
}

func hasSupportedCluster(s schema.Scope, supported schema.Cluster) bool {
	for _, c := range []schema.Cluster{schema.ClusterMilestone} {
		if supported.Has(c) && s.HasCluster(c) {
			return true
		}
	}
	return false
}

// IsPending reports whether err means the data is not collected yet.
func IsPending(err error) bool { return errors.Is(err, schema.ErrDataNotReady) }
