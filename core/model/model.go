// Package model is the runtime of evaluation models: the registry of
// variables and constants, scoped variable evaluation, config-backed
// constants and the per-syllabus model cache.
package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
)

// Deps are the collaborators a model is built with.
type Deps struct {
	Config  contract.ConfigStore
	Sources contract.SourceAccessor
	Logger  zerolog.Logger
	Debug   bool // let foreign errors and panics escape Variable.Get unwrapped
}

// Model is the evaluation model of one syllabus.
type Model struct {
	def        Definition
	syllabusID int64
	reg        *Registry
	deps       Deps

	mu        sync.Mutex
	constants map[string]*Constant
}

// New builds the model of modelType for a syllabus.
func New(reg *Registry, modelType string, syllabusID int64, deps Deps) (*Model, error) {
	def, err := reg.Definition(modelType)
	if err != nil {
		return nil, err
	}
	if deps.Sources == nil {
		return nil, fmt.Errorf("model %q: source accessor is required", modelType)
	}
	if deps.Config == nil {
		deps.Config = contract.NewMemoryConfig(nil)
	}
	return &Model{
		def:        def,
		syllabusID: syllabusID,
		reg:        reg,
		deps:       deps,
		constants:  make(map[string]*Constant),
	}, nil
}

// Type returns the model type.
func (m *Model) Type() string { return m.def.Type }

// SyllabusID returns the syllabus the model belongs to.
func (m *Model) SyllabusID() int64 { return m.syllabusID }

// Definition returns the model definition.
func (m *Model) Definition() Definition { return m.def }

// Criteria returns the expert evaluation criteria sorted by order.
func (m *Model) Criteria() []Criterion {
	out := append([]Criterion(nil), m.def.Criteria...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Special returns the headline rating aliases.
func (m *Model) Special() Special { return m.def.Special }

// Group returns the aliases of a named variable group.
func (m *Model) Group(name string) []string { return m.def.Groups[name] }

// Sources returns the source accessor.
func (m *Model) Sources() contract.SourceAccessor { return m.deps.Sources }

// Config returns the syllabus configuration store.
func (m *Model) Config() contract.ConfigStore { return m.deps.Config }

// Logger returns the model logger.
func (m *Model) Logger() zerolog.Logger { return m.deps.Logger }

// Debug reports whether foreign errors escape evaluation unwrapped.
func (m *Model) Debug() bool { return m.deps.Debug }

// Var returns the unscoped variable registered under alias.
func (m *Model) Var(alias string) (Variable, error) {
	ev, err := m.reg.Variable(m.def.Type, alias)
	if err != nil {
		return Variable{}, err
	}
	return Variable{model: m, eval: ev}, nil
}

// HasVar reports whether alias is a variable of this model.
func (m *Model) HasVar(alias string) bool { return m.reg.HasVariable(m.def.Type, alias) }

// Vars returns every variable of the model, unscoped.
func (m *Model) Vars() []Variable {
	evs := m.reg.AllVariables(m.def.Type)
	out := make([]Variable, 0, len(evs))
	for _, ev := range evs {
		out = append(out, Variable{model: m, eval: ev})
	}
	return out
}

// VarsFor returns the variables that support area and cluster.
func (m *Model) VarsFor(area schema.Area, cluster schema.Cluster) []Variable {
	var out []Variable
	for _, v := range m.Vars() {
		info := v.Info()
		if (area == schema.AreaNone || info.Areas.Has(area)) && (cluster == 0 || info.Clusters.Has(cluster)) {
			out = append(out, v)
		}
	}
	return out
}

// Const returns the constant registered under alias. Constants are created
// once per model so their memoized values are shared by all evaluations.
func (m *Model) Const(alias string) (*Constant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.constants[alias]; ok {
		return c, nil
	}
	meta, err := m.reg.Constant(m.def.Type, alias)
	if err != nil {
		return nil, err
	}
	c := newConstant(meta, m.deps.Config, m.deps.Logger)
	m.constants[alias] = c
	return c, nil
}

// HasConst reports whether alias is a constant of this model.
func (m *Model) HasConst(alias string) bool { return m.reg.HasConstant(m.def.Type, alias) }

// Constants returns every constant of the model.
func (m *Model) Constants() []*Constant {
	metas := m.reg.AllConstants(m.def.Type)
	out := make([]*Constant, 0, len(metas))
	for _, meta := range metas {
		c, err := m.Const(meta.Alias)
		if err == nil {
			out = append(out, c)
		}
	}
	return out
}

// ReloadConstants drops every memoized constant value.
func (m *Model) ReloadConstants() {
	for _, c := range m.Constants() {
		c.Reload()
	}
}
