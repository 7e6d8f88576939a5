package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when a model type or alias is not registered.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when an alias is registered twice for one model type.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrRegistryFrozen is returned when registering after Freeze.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrInvalidItem is returned when an item fails registration checks.
	ErrInvalidItem = errors.New("invalid item")
)

// items keeps registered entries in registration order.
type items[T any] struct {
	order []string
	byKey map[string]T
}

func (it *items[T]) add(key string, v T) error {
	if it.byKey == nil {
		it.byKey = make(map[string]T)
	}
	if _, ok := it.byKey[key]; ok {
		return fmt.Errorf("%q: %w", key, ErrAlreadyRegistered)
	}
	it.byKey[key] = v
	it.order = append(it.order, key)
	return nil
}

// Registry maps model types to their definitions, variables and constants.
//
// Registration happens once at startup through explicit calls; Freeze then
// makes it read-only. Lookups are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	frozen    bool
	models    map[string]Definition
	variables map[string]*items[Constructor]
	constants map[string]*items[ConstMeta]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		models:    make(map[string]Definition),
		variables: make(map[string]*items[Constructor]),
		constants: make(map[string]*items[ConstMeta]),
	}
}

// RegisterModel adds a model type definition.
func (r *Registry) RegisterModel(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	if strings.TrimSpace(def.Type) == "" {
		return fmt.Errorf("model type is empty: %w", ErrInvalidItem)
	}
	if _, ok := r.models[def.Type]; ok {
		return fmt.Errorf("model %q: %w", def.Type, ErrAlreadyRegistered)
	}
	seen := map[string]struct{}{}
	for _, c := range def.Criteria {
		if c.Alias == "" || c.Scale == nil {
			return fmt.Errorf("model %q criterion %q needs an alias and a scale: %w", def.Type, c.Alias, ErrInvalidItem)
		}
		if _, dup := seen[c.Alias]; dup {
			return fmt.Errorf("model %q criterion %q: %w", def.Type, c.Alias, ErrAlreadyRegistered)
		}
		seen[c.Alias] = struct{}{}
	}
	r.models[def.Type] = def
	return nil
}

// RegisterVariable adds a variable constructor for modelType.
// The constructed evaluator's metadata is validated here, once.
func (r *Registry) RegisterVariable(modelType string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("nil constructor: %w", ErrInvalidItem)
	}
	meta := ctor().Info()
	if err := validateMeta(meta); err != nil {
		return fmt.Errorf("model %q: %w", modelType, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	set, ok := r.variables[modelType]
	if !ok {
		set = &items[Constructor]{}
		r.variables[modelType] = set
	}
	if err := set.add(meta.Alias, ctor); err != nil {
		return fmt.Errorf("model %q variable %w", modelType, err)
	}
	return nil
}

// RegisterConstant adds a constant for modelType.
func (r *Registry) RegisterConstant(modelType string, meta ConstMeta) error {
	if strings.TrimSpace(meta.Alias) == "" || meta.Scale == nil {
		return fmt.Errorf("model %q constant %q needs an alias and a scale: %w", modelType, meta.Alias, ErrInvalidItem)
	}
	if _, err := meta.Scale.Get(meta.Default); err != nil {
		return fmt.Errorf("model %q constant %q default: %v: %w", modelType, meta.Alias, err, ErrInvalidItem)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	set, ok := r.constants[modelType]
	if !ok {
		set = &items[ConstMeta]{}
		r.constants[modelType] = set
	}
	if err := set.add(meta.Alias, meta); err != nil {
		return fmt.Errorf("model %q constant %w", modelType, err)
	}
	return nil
}

// MustRegisterVariable is RegisterVariable that panics on error, for startup code.
func (r *Registry) MustRegisterVariable(modelType string, ctor Constructor) {
	if err := r.RegisterVariable(modelType, ctor); err != nil {
		panic(err)
	}
}

// MustRegisterConstant is RegisterConstant that panics on error, for startup code.
func (r *Registry) MustRegisterConstant(modelType string, meta ConstMeta) {
	if err := r.RegisterConstant(modelType, meta); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Definition returns the definition of modelType.
func (r *Registry) Definition(modelType string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.models[modelType]
	if !ok {
		return Definition{}, fmt.Errorf("model %q: %w", modelType, ErrNotFound)
	}
	return def, nil
}

// ModelTypes lists the registered model types.
func (r *Registry) ModelTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.models))
	for t := range r.models {
		types = append(types, t)
	}
	return types
}

// Variable constructs the evaluator registered under alias.
func (r *Registry) Variable(modelType, alias string) (Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if set, ok := r.variables[modelType]; ok {
		if ctor, ok := set.byKey[alias]; ok {
			return ctor(), nil
		}
	}
	return nil, fmt.Errorf("model %q variable %q: %w", modelType, alias, ErrNotFound)
}

// AllVariables constructs one evaluator per registered alias, in registration order.
func (r *Registry) AllVariables(modelType string) []Evaluator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.variables[modelType]
	if !ok {
		return nil
	}
	out := make([]Evaluator, 0, len(set.order))
	for _, alias := range set.order {
		out = append(out, set.byKey[alias]())
	}
	return out
}

// HasVariable reports whether alias is registered for modelType.
func (r *Registry) HasVariable(modelType, alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.variables[modelType]
	if !ok {
		return false
	}
	_, ok = set.byKey[alias]
	return ok
}

// Constant returns the constant registered under alias.
func (r *Registry) Constant(modelType, alias string) (ConstMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if set, ok := r.constants[modelType]; ok {
		if meta, ok := set.byKey[alias]; ok {
			return meta, nil
		}
	}
	return ConstMeta{}, fmt.Errorf("model %q constant %q: %w", modelType, alias, ErrNotFound)
}

// AllConstants returns every constant of modelType, in registration order.
func (r *Registry) AllConstants(modelType string) []ConstMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.constants[modelType]
	if !ok {
		return nil
	}
	out := make([]ConstMeta, 0, len(set.order))
	for _, alias := range set.order {
		out = append(out, set.byKey[alias])
	}
	return out
}

// HasConstant reports whether alias is registered for modelType.
func (r *Registry) HasConstant(modelType, alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.constants[modelType]
	if !ok {
		return false
	}
	_, ok = set.byKey[alias]
	return ok
}

func validateMeta(m Meta) error {
	switch {
	case strings.TrimSpace(m.Alias) == "":
		return fmt.Errorf("variable alias is empty: %w", ErrInvalidItem)
	case m.Scale == nil:
		return fmt.Errorf("variable %q has no scale: %w", m.Alias, ErrInvalidItem)
	case !m.Areas.Valid():
		return fmt.Errorf("variable %q has invalid areas %08b: %w", m.Alias, m.Areas, ErrInvalidItem)
	case !m.Clusters.Valid():
		return fmt.Errorf("variable %q has invalid clusters %08b: %w", m.Alias, m.Clusters, ErrInvalidItem)
	}
	return nil
}
