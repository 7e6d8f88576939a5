package scale

import (
	"testing"
)

// FuzzPercentAlwaysInRange checks that any accepted value lands in [0, 100].
func FuzzPercentAlwaysInRange(f *testing.F) {
	f.Add("150")
	f.Add("-3")
	f.Add("42.5")
	f.Add("NaN")
	f.Add("")

	f.Fuzz(func(t *testing.T, in string) {
		got, err := Percent{T: Float}.Get(in)
		if err != nil {
			return
		}
		v := got.(float64)
		if v < 0 || v > 100 {
			t.Fatalf("Percent.Get(%q) = %v out of range", in, v)
		}
	})
}

// FuzzUnityAlwaysInRange checks that any accepted float lands in [0, 1].
func FuzzUnityAlwaysInRange(f *testing.F) {
	f.Add(1.5)
	f.Add(-1.0)
	f.Add(0.3)

	f.Fuzz(func(t *testing.T, in float64) {
		got, err := Unity{}.Get(in)
		if err != nil {
			return
		}
		v := got.(float64)
		if v < 0 || v > 1 {
			t.Fatalf("Unity.Get(%v) = %v out of range", in, v)
		}
	})
}
