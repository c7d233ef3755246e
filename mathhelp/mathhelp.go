package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	Tau     = 2 * math.Pi
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

func BetweenInc[T constraints.Integer | constraints.Float](f, p, q T) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

// Clamp restricts v to [lo, hi]
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Wrap maps v into [lo, hi), e.g. an angle into [0, 2pi)
func Wrap(v, lo, hi float64) float64 {
	d := hi - lo
	return math.Mod(math.Mod(v-lo, d)+d, d) + lo
}

// IsFinite is false for NaN and +/-Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
