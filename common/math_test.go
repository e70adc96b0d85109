package common

import (
	"math"
	"testing"
)

func TestUprightAngle(t *testing.T) {
	cases := []float64{0, 0.3, -0.3, math.Pi / 2, math.Pi, 2.5, -2.5, 4 * math.Pi / 3, 10, -10}
	for _, a := range cases {
		got := UprightAngle(a)
		if math.Cos(got) < -1e-12 {
			t.Fatalf("UprightAngle(%v) = %v, cos = %v", a, got, math.Cos(got))
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		v, lo, hi, want float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -1, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"inverted", 3, 10, 0, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}
