// Package core wires the evaluation engine: the built-in model packages,
// the SQL sources and the model cache, plus the operations the CLI and the
// MCP server expose on top of them.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/gradepoint/core/defaultmodel"
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/internal/sqlsource"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
)

// NewRegistry returns a frozen registry holding every built-in model package.
func NewRegistry() (*model.Registry, error) {
	reg := model.NewRegistry()
	if err := defaultmodel.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register %s model: %w", defaultmodel.Type, err)
	}
	reg.Freeze()
	return reg, nil
}

// Engine is an open evaluation database together with the model cache built over it.
type Engine struct {
	store   *sqlsource.Store
	manager *model.Manager
	logger  zerolog.Logger
}

// NewEngine builds an engine over an open store.
func NewEngine(store *sqlsource.Store, logger zerolog.Logger, debug bool) (*Engine, error) {
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	mgr := model.NewManager(reg, model.ManagerOptions{
		Configs: store,
		Sources: store,
		Logger:  logger,
		Debug:   debug,
	})
	return &Engine{store: store, manager: mgr, logger: logger}, nil
}

// Store returns the evaluation database.
func (e *Engine) Store() *sqlsource.Store { return e.store }

// Manager returns the model cache.
func (e *Engine) Manager() *model.Manager { return e.manager }

// Model returns the evaluation model of a syllabus.
func (e *Engine) Model(ctx context.Context, syllabusID int64) (*model.Model, error) {
	return e.manager.Get(ctx, syllabusID)
}

// ModelFor returns the model that evaluates scope s.
// The syllabus is taken from the scope, or resolved from its project or group.
func (e *Engine) ModelFor(ctx context.Context, s schema.Scope) (*model.Model, error) {
	syllabusID := s.SyllabusID
	var err error
	switch {
	case syllabusID != 0:
	case s.ProjectID != 0:
		syllabusID, err = e.store.ProjectSyllabus(ctx, s.ProjectID)
	case s.GroupID != 0:
		syllabusID, err = e.store.GroupSyllabus(ctx, s.GroupID)
	default:
		return nil, schema.MissedQueryArguments("a syllabus, project or group is required to pick an evaluation model")
	}
	if err != nil {
		return nil, err
	}
	return e.manager.Get(ctx, syllabusID)
}

// ClearCache drops every cached model and reports how many were dropped.
func (e *Engine) ClearCache() int {
	n := e.manager.Cached()
	e.manager.InvalidateAll()
	e.logger.Debug().Int("models", n).Msg("Cleared model cache")
	return n
}

// Close closes the evaluation database.
func (e *Engine) Close() error { return e.store.Close() }
