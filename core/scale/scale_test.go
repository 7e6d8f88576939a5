package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allScales() map[string]Scale {
	return map[string]Scale{
		"base-any":     Base{},
		"base-int":     Base{T: Int},
		"nominal":      Nominal{T: String, Terms: []any{"a", "b"}},
		"boolean":      Boolean{},
		"ordinal":      Ordinal{Terms: []string{"low", "high"}},
		"interval":     Interval{T: Int, Min: 2, Max: 5},
		"ratio":        Ratio{T: Float},
		"unity":        Unity{},
		"percent-int":  Percent{T: Int},
		"percent-real": Percent{T: Float},
	}
}

func TestGetNilNeverFails(t *testing.T) {
	want := map[string]any{
		"base-any":     nil,
		"base-int":     int64(0),
		"nominal":      nil,
		"boolean":      false,
		"ordinal":      nil,
		"interval":     int64(2),
		"ratio":        0.0,
		"unity":        0.0,
		"percent-int":  int64(0),
		"percent-real": 0.0,
	}
	for name, s := range allScales() {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(nil)
			require.NoError(t, err)
			assert.Equal(t, want[name], got)
		})
	}
}

func TestClamping(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		in    any
		want  any
	}{
		{"unity above", Unity{}, 1.5, 1.0},
		{"unity below", Unity{}, -0.2, 0.0},
		{"unity inside", Unity{}, 0.25, 0.25},
		{"unity from int", Unity{}, 1, 1.0},
		{"percent int above", Percent{T: Int}, 150, int64(100)},
		{"percent float above", Percent{T: Float}, 150, 100.0},
		{"percent truncates", Percent{T: Int}, 42.9, int64(42)},
		{"percent from string", Percent{T: Float}, "12.5", 12.5},
		{"ratio negative", Ratio{T: Int}, -3, int64(0)},
		{"ratio large", Ratio{T: Float}, 1e9, 1e9},
		{"interval below", Interval{T: Int, Min: 2, Max: 5}, 1, int64(2)},
		{"interval above", Interval{T: Float, Min: 2, Max: 5}, 7.5, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.scale.Get(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoercionErrors(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		in    any
	}{
		{"percent garbage", Percent{T: Float}, "lots"},
		{"unity nan", Unity{}, math.NaN()},
		{"base int garbage", Base{T: Int}, "1.5x"},
		{"boolean garbage", Boolean{}, "maybe"},
		{"nominal outside", Nominal{T: String, Terms: []any{"a"}}, "z"},
		{"ordinal outside", Ordinal{Terms: []string{"low"}}, "mid"},
		{"unsupported type", Unity{}, struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scale.Get(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestBooleanAndNominal(t *testing.T) {
	for in, want := range map[any]bool{"true": true, "0": false, 1: true, 0.0: false, "": false} {
		got, err := Boolean{}.Get(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %v", in)
	}

	n := Nominal{T: Int, Terms: []any{int64(1), int64(3)}}
	got, err := n.Get("3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	o := Ordinal{Terms: []string{"low", "mid", "high"}}
	rank, err := o.Rank("high")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}

func TestTypesAndTruthy(t *testing.T) {
	assert.Equal(t, Float, Unity{}.Type())
	assert.Equal(t, Int, Percent{T: Int}.Type())
	assert.Equal(t, Float, Percent{}.Type())
	assert.Equal(t, "percent", Percent{}.Name())

	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(""))
	assert.True(t, Truthy(int64(2)))
	assert.True(t, Truthy("x"))

	i, err := ToInt(-2.7)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), i)
}
