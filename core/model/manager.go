package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
)

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	Configs contract.ConfigProvider
	Sources contract.SourceFactory
	Logger  zerolog.Logger
	Debug   bool
}

// Manager caches one Model per syllabus for the lifetime of the process.
//
// Invalidation only affects the next lookup: callers holding a model keep a
// consistent instance until they drop it.
type Manager struct {
	reg  *Registry
	opts ManagerOptions

	mu     sync.Mutex
	models map[int64]*Model
}

// NewManager creates a model cache over a frozen registry.
func NewManager(reg *Registry, opts ManagerOptions) *Manager {
	return &Manager{reg: reg, opts: opts, models: make(map[int64]*Model)}
}

// Registry returns the registry models are built from.
func (mgr *Manager) Registry() *Registry { return mgr.reg }

// Get returns the model of a syllabus, building it on first use.
func (mgr *Manager) Get(ctx context.Context, syllabusID int64) (*Model, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if m, ok := mgr.models[syllabusID]; ok {
		return m, nil
	}
	m, err := mgr.build(ctx, syllabusID)
	if err != nil {
		return nil, err
	}
	mgr.models[syllabusID] = m
	return m, nil
}

// Invalidate drops the cached model of a syllabus.
func (mgr *Manager) Invalidate(syllabusID int64) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	delete(mgr.models, syllabusID)
}

// InvalidateAll drops every cached model.
func (mgr *Manager) InvalidateAll() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	clear(mgr.models)
}

// Cached returns the number of cached models.
func (mgr *Manager) Cached() int {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return len(mgr.models)
}

func (mgr *Manager) build(ctx context.Context, syllabusID int64) (*Model, error) {
	if mgr.opts.Configs == nil || mgr.opts.Sources == nil {
		return nil, fmt.Errorf("model manager needs a config provider and a source factory")
	}
	store, err := mgr.opts.Configs.ForSyllabus(ctx, syllabusID)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration of syllabus %d: %w", syllabusID, err)
	}
	pkg := store.Get(schema.SectionEvaluation, schema.OptionPackage, schema.DefaultPackage)
	def, err := mgr.reg.Definition(pkg)
	if err != nil {
		return nil, fmt.Errorf("syllabus %d selects evaluation package %q: %w", syllabusID, pkg, err)
	}
	logger := mgr.opts.Logger.With().Int64("syllabus", syllabusID).Str("model", def.Type).Logger()
	m, err := New(mgr.reg, def.Type, syllabusID, Deps{
		Config:  store,
		Sources: mgr.opts.Sources.ForModel(def.EnumMap),
		Logger:  logger,
		Debug:   mgr.opts.Debug,
	})
	if err != nil {
		return nil, err
	}
	modelBuildsTotal.WithLabelValues(def.Type).Inc()
	logger.Debug().Msg("Built evaluation model")
	return m, nil
}
