package model

import (
	"context"

	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/schema"
)

// Meta describes a variable: what it is called, how its value is scaled,
// and which areas and clusters it can be evaluated over.
type Meta struct {
	Alias       string
	Label       string
	Description string
	Scale       scale.Scale
	Areas       schema.Area
	Clusters    schema.Cluster
}

// Info returns the metadata itself, so concrete variables can embed Meta
// to satisfy the Evaluator interface.
func (m Meta) Info() Meta { return m }

// Evaluator computes the raw value of one variable.
// Implementations must be stateless between calls: everything that varies
// per call comes in through the Evaluation.
type Evaluator interface {
	Info() Meta
	Evaluate(ctx context.Context, ev *Evaluation) (any, error)
}

// Constructor builds a fresh evaluator.
type Constructor func() Evaluator

// ConstMeta describes a tunable constant of a model.
type ConstMeta struct {
	Alias       string
	Label       string
	Description string
	Scale       scale.Scale
	Default     any
}

// Criterion is one criterion of the expert project evaluation form.
type Criterion struct {
	Alias       string
	Order       int
	Label       string
	Description string
	Scale       scale.Scale
}

// Special names the variables that hold the headline ratings of a model.
type Special struct {
	Individual string
	Project    string
	Final      string
}

// Definition is everything a model type declares besides its variables and constants.
type Definition struct {
	Type     string
	EnumMap  schema.EnumMap
	Criteria []Criterion
	Special  Special
	Groups   map[string][]string
}
