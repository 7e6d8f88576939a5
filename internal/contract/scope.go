package contract

import (
	"maps"
	"sync"

	"github.com/huangsam/gradepoint/schema"
)

// ScopeState records scoping calls into a schema.Scope.
// Sources embed it to satisfy schema.Scoper.
type ScopeState struct {
	Scope schema.Scope
}

// Project implements schema.Scoper.
func (s *ScopeState) Project(id int64) { s.Scope = s.Scope.Project(id) }

// User implements schema.Scoper.
func (s *ScopeState) User(username string) { s.Scope = s.Scope.User(username) }

// Group implements schema.Scoper.
func (s *ScopeState) Group(id int64) { s.Scope = s.Scope.Group(id) }

// Syllabus implements schema.Scoper.
func (s *ScopeState) Syllabus(id int64) { s.Scope = s.Scope.Syllabus(id) }

// Milestone implements schema.Scoper.
func (s *ScopeState) Milestone(name string) { s.Scope = s.Scope.WithMilestone(name) }

// MemoryConfig is a ConfigStore kept in memory.
type MemoryConfig struct {
	mu     sync.RWMutex
	values map[string]string
	staged map[string]string
	Saves  int
}

var _ ConfigStore = &MemoryConfig{} // Compile-time check

// NewMemoryConfig returns a store pre-filled with section -> key -> value.
func NewMemoryConfig(initial map[string]map[string]string) *MemoryConfig {
	c := &MemoryConfig{values: map[string]string{}, staged: map[string]string{}}
	for section, kv := range initial {
		for k, v := range kv {
			c.values[section+"."+k] = v
		}
	}
	return c
}

// Get implements ConfigStore. Staged values are visible before Save.
func (c *MemoryConfig) Get(section, key, def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.staged[section+"."+key]; ok {
		return v
	}
	if v, ok := c.values[section+"."+key]; ok {
		return v
	}
	return def
}

// Set implements ConfigStore.
func (c *MemoryConfig) Set(section, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged[section+"."+key] = value
	return nil
}

// Save implements ConfigStore.
func (c *MemoryConfig) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.values, c.staged)
	clear(c.staged)
	c.Saves++
	return nil
}
