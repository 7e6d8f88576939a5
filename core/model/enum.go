package model

import (
	"math"
	"sort"

	"github.com/huangsam/gradepoint/schema"
)

// GetEnumValue returns the numeric equivalent of a ticket field value.
// It never fails: unknown values use the wildcard weight, unknown types 0.
func (m *Model) GetEnumValue(enumType, value string) float64 {
	return m.def.EnumMap.Value(enumType, value)
}

// EnumEquivalents returns the name to weight table of enumType.
func (m *Model) EnumEquivalents(enumType string) map[string]float64 {
	return m.def.EnumMap.Equivalents(enumType)
}

// RevertEnum returns the enum name whose weight is closest to value.
// On an exact midpoint the larger weight wins.
func (m *Model) RevertEnum(enumType string, value float64) (string, error) {
	return RevertEnum(m.def.EnumMap, enumType, value)
}

// RevertEnum is the model independent form of Model.RevertEnum.
func RevertEnum(enums schema.EnumMap, enumType string, value float64) (string, error) {
	mapping, ok := enums[enumType]
	if !ok {
		return "", schema.ModelError("no enum mapping for %q", enumType)
	}
	reverse := make(map[float64]string)
	for _, e := range mapping {
		if e.Name == schema.EnumWildcard {
			continue
		}
		reverse[e.Weight] = e.Name // later names win on shared weights
	}
	if len(reverse) == 0 {
		return "", schema.ModelError("enum mapping for %q is empty", enumType)
	}
	if name, ok := reverse[value]; ok {
		return name, nil
	}

	weights := make([]float64, 0, len(reverse))
	for w := range reverse {
		weights = append(weights, w)
	}
	sort.Float64s(weights)

	// First weight above value is the successor; the one before it the predecessor.
	i := sort.SearchFloat64s(weights, value)
	switch {
	case i == 0:
		return reverse[weights[0]], nil
	case i == len(weights):
		return reverse[weights[len(weights)-1]], nil
	}
	prev, next := weights[i-1], weights[i]
	if math.Abs(value-prev) < math.Abs(next-value) {
		return reverse[prev], nil
	}
	return reverse[next], nil
}
