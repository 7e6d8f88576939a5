package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumMapValue(t *testing.T) {
	m := EnumMap{
		"priority": {{"minor", 2}, {"major", 4}, {EnumWildcard, 3}},
		"bare":     {{"a", 1}},
	}

	tests := []struct {
		name     string
		enumType string
		value    string
		want     float64
	}{
		{"exact", "priority", "major", 4},
		{"case insensitive", "priority", "MiNoR", 2},
		{"unknown value uses wildcard", "priority", "galactic", 3},
		{"empty value uses wildcard", "priority", "", 3},
		{"no wildcard", "bare", "zzz", 0},
		{"empty without wildcard", "bare", "", 0},
		{"unknown type", "nope", "major", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Value(tt.enumType, tt.value))
		})
	}

	assert.Equal(t, []string{"minor", "major"}, m["priority"].Names())
	assert.Equal(t, map[string]float64{"minor": 2, "major": 4, "*": 3}, m.Equivalents("priority"))
	assert.Equal(t, []string{"bare", "priority"}, m.Types())
}
