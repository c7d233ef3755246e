// Package vec holds the 2D vector primitives the rest of the geometry builds on.
package vec

import "math"

// Vec2 represents a point or a vector in 2D space
type Vec2 [2]float64

// X is the first component
func (v Vec2) X() float64 { return v[0] }

// Y is the second component
func (v Vec2) Y() float64 { return v[1] }

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v[0] + o[0], v[1] + o[1]}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v[0] - o[0], v[1] - o[1]}
}

// Scale multiplies both components with n
func (v Vec2) Scale(n float64) Vec2 {
	return Vec2{v[0] * n, v[1] * n}
}

// Floor floors both components
func (v Vec2) Floor() Vec2 {
	return Vec2{math.Floor(v[0]), math.Floor(v[1])}
}

// Dot product of vector with another vector
func (v Vec2) Dot(o Vec2) float64 {
	return v[0]*o[0] + v[1]*o[1]
}

// Cross is the 2D cross product (the z of the 3D cross product).
func (v Vec2) Cross(o Vec2) float64 {
	return v[0]*o[1] - v[1]*o[0]
}

// Length (magnitude) of vector
func (v Vec2) Length() float64 {
	return math.Hypot(v[0], v[1])
}

// Dist is the euclidean distance between two points
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Length()
}

// Normalize returns the unit vector, or the zero vector for a zero length
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Angle of the vector from a to b in relation to the x-axis, in radians (-pi, pi]
func Angle(a, b Vec2) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0])
}

// Interp interpolates linearly between a (t=0) and b (t=1)
func Interp(a, b Vec2, t float64) Vec2 {
	return Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// Rotate rotates v counterclockwise by angle (radians) around pivot.
// In screen space (y down) this shows as clockwise.
func (v Vec2) Rotate(angle float64, pivot Vec2) Vec2 {
	sin, cos := math.Sincos(angle)
	x := v[0] - pivot[0]
	y := v[1] - pivot[1]
	return Vec2{
		x*cos - y*sin + pivot[0],
		x*sin + y*cos + pivot[1],
	}
}

// Equal compares with a tolerance. Use epsilon 0 for exact equality.
func (v Vec2) Equal(o Vec2, epsilon float64) bool {
	if epsilon == 0 {
		return v == o
	}
	return math.Abs(v[0]-o[0]) <= epsilon && math.Abs(v[1]-o[1]) <= epsilon
}

// IsFinite is false if a component is NaN or infinite
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) && !math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}

// ProjectOntoSegment returns the point on segment (a, b) closest to p
// and the parameter t in [0, 1] of that point along the segment.
// A degenerate segment projects everything onto a.
func ProjectOntoSegment(p, a, b Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return Interp(a, b, t), t
}

// Points converts a slice of vectors to plain coordinate pairs
func Points(vs []Vec2) [][2]float64 {
	pts := make([][2]float64, len(vs))
	for i := range vs {
		pts[i] = vs[i]
	}
	return pts
}
