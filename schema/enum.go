package schema

import (
	"sort"
	"strings"
)

// EnumWildcard is the key of the fallback entry of an enum mapping.
const EnumWildcard = "*"

// EnumEntry pairs a textual ticket field value with its numeric weight.
type EnumEntry struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// EnumMapping is an ordered list of entries for one enum type.
// Order matters when two names share a weight.
type EnumMapping []EnumEntry

// EnumMap holds the mappings of a model, keyed by enum type.
type EnumMap map[string]EnumMapping

// Lookup returns the weight for name, if present.
func (m EnumMapping) Lookup(name string) (float64, bool) {
	for _, e := range m {
		if e.Name == name {
			return e.Weight, true
		}
	}
	return 0, false
}

// Names lists the non-wildcard names in declaration order.
func (m EnumMapping) Names() []string {
	names := make([]string, 0, len(m))
	for _, e := range m {
		if e.Name != EnumWildcard {
			names = append(names, e.Name)
		}
	}
	return names
}

// Value returns the numeric equivalent of value for enumType.
// Unknown values fall back to the wildcard entry, then to 0.
// Unknown types always yield 0.
func (m EnumMap) Value(enumType, value string) float64 {
	mapping, ok := m[enumType]
	if !ok {
		return 0
	}
	if w, ok := mapping.Lookup(strings.ToLower(value)); ok {
		return w
	}
	if w, ok := mapping.Lookup(EnumWildcard); ok {
		return w
	}
	return 0
}

// Equivalents returns the name to weight table for enumType, wildcard included.
func (m EnumMap) Equivalents(enumType string) map[string]float64 {
	out := make(map[string]float64, len(m[enumType]))
	for _, e := range m[enumType] {
		out[e.Name] = e.Weight
	}
	return out
}

// Types returns the enum types in sorted order.
func (m EnumMap) Types() []string {
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
