package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi]. When lo > hi the midpoint is returned.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// UprightAngle folds angle so that cos(angle) >= 0, keeping text readable.
func UprightAngle(angle float64) float64 {
	if math.Cos(angle) < 0 {
		angle += math.Pi
	}
	return angle
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
