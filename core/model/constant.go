package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/huangsam/gradepoint/core/scale"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
)

// Constant is a tunable model parameter stored in the syllabus configuration.
type Constant struct {
	meta   ConstMeta
	store  contract.ConfigStore
	logger zerolog.Logger

	mu     sync.Mutex
	loaded bool
	value  any
}

func newConstant(meta ConstMeta, store contract.ConfigStore, logger zerolog.Logger) *Constant {
	return &Constant{meta: meta, store: store, logger: logger}
}

// Info returns the constant metadata.
func (c *Constant) Info() ConstMeta { return c.meta }

// Key returns the configuration option holding the constant.
func (c *Constant) Key() string { return strings.ToLower(c.meta.Alias) }

// Get returns the constant value, reading the configuration on first use.
//
// A stored value that does not fit the scale silently yields the default.
// This keeps ratings available when configuration is edited by hand.
func (c *Constant) Get() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.value = c.fromConfig()
		c.loaded = true
	}
	return c.value
}

// Float returns the constant value as float64.
func (c *Constant) Float() float64 {
	f, _ := scale.ToFloat(c.Get())
	return f
}

// Set validates value against the scale and stages it in the configuration.
// Callers save the configuration store to make it durable.
func (c *Constant) Set(value any) error {
	v, err := c.meta.Scale.Get(value)
	if err != nil {
		return schema.ModelError("constant %q: invalid value %v: %v", c.meta.Alias, value, err)
	}
	if err := c.store.Set(schema.SectionConstants, c.Key(), fmt.Sprint(v)); err != nil {
		return fmt.Errorf("failed to store constant %q: %w", c.meta.Alias, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value, c.loaded = v, true
	return nil
}

// Reset stores the default value.
func (c *Constant) Reset() error { return c.Set(c.meta.Default) }

// Reload forgets the memoized value so the next Get reads the configuration again.
func (c *Constant) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.value = nil
}

func (c *Constant) fromConfig() any {
	def := c.defaultValue()
	raw := c.store.Get(schema.SectionConstants, c.Key(), "")
	if raw == "" {
		return def
	}
	v, err := c.meta.Scale.Get(raw)
	if err != nil {
		c.logger.Debug().Str("alias", c.meta.Alias).Str("raw", raw).Err(err).Msg("Ignoring malformed constant")
		return def
	}
	return v
}

func (c *Constant) defaultValue() any {
	v, err := c.meta.Scale.Get(c.meta.Default)
	if err != nil {
		return c.meta.Default
	}
	return v
}
