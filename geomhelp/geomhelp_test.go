package geomhelp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/viewtiles/vec"
)

func square(minX, minY, maxX, maxY float64) []vec.Vec2 {
	return []vec.Vec2{{minX, minY}, {minX, maxY}, {maxX, maxY}, {maxX, minY}, {minX, minY}}
}

func TestEdgeEqual(t *testing.T) {
	assert.True(t, EdgeEqual([2]string{"n1", "n2"}, [2]string{"n1", "n2"}))
	assert.True(t, EdgeEqual([2]string{"n1", "n2"}, [2]string{"n2", "n1"}))
	assert.False(t, EdgeEqual([2]string{"n1", "n2"}, [2]string{"n1", "n3"}))
	assert.True(t, EdgeEqual([2]int{1, 2}, [2]int{2, 1}))
}

func TestRotatePoints(t *testing.T) {
	points := []vec.Vec2{{1, 0}, {2, 0}}
	got := RotatePoints(points, math.Pi/2, vec.Vec2{0, 0})
	require.Len(t, got, 2)
	assert.InDelta(t, 0, got[0][0], 1e-12)
	assert.InDelta(t, 1, got[0][1], 1e-12)
	assert.InDelta(t, 0, got[1][0], 1e-12)
	assert.InDelta(t, 2, got[1][1], 1e-12)
	// input untouched
	assert.Equal(t, vec.Vec2{1, 0}, points[0])
}

func TestLineIntersection(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []vec.Vec2
		wantOk bool
		want   vec.Vec2
	}{
		{name: "crossing", a: []vec.Vec2{{0, 0}, {10, 0}}, b: []vec.Vec2{{5, 10}, {5, -10}},
			wantOk: true, want: vec.Vec2{5, 0}},
		{name: "touching at end", a: []vec.Vec2{{0, 0}, {10, 10}}, b: []vec.Vec2{{10, 10}, {20, 0}},
			wantOk: true, want: vec.Vec2{10, 10}},
		{name: "parallel", a: []vec.Vec2{{0, 0}, {10, 0}}, b: []vec.Vec2{{0, 5}, {10, 5}}},
		{name: "colinear overlapping", a: []vec.Vec2{{0, 0}, {10, 0}}, b: []vec.Vec2{{5, 0}, {15, 0}}},
		{name: "colinear disjoint", a: []vec.Vec2{{0, 0}, {10, 0}}, b: []vec.Vec2{{20, 0}, {30, 0}}},
		{name: "lines cross outside segments", a: []vec.Vec2{{0, 0}, {10, 0}}, b: []vec.Vec2{{5, 10}, {5, 1}}},
		{name: "not a segment", a: []vec.Vec2{{0, 0}, {10, 0}, {20, 0}}, b: []vec.Vec2{{5, 10}, {5, -10}}},
		{name: "single point", a: []vec.Vec2{{0, 0}}, b: []vec.Vec2{{5, 10}, {5, -10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LineIntersection(tt.a, tt.b)
			require.Equal(t, tt.wantOk, ok)
			if ok {
				assert.InDelta(t, tt.want[0], got[0], 1e-12)
				assert.InDelta(t, tt.want[1], got[1], 1e-12)
			}
		})
	}
}

func TestPathIntersections(t *testing.T) {
	path1 := []vec.Vec2{{0, 0}, {10, 0}, {10, 10}}
	path2 := []vec.Vec2{{5, -5}, {5, 5}, {15, 5}}
	got := PathIntersections(path1, path2)
	assert.Equal(t, []vec.Vec2{{5, 0}, {10, 5}}, got)
	assert.True(t, PathHasIntersections(path1, path2))

	path3 := []vec.Vec2{{20, 20}, {30, 30}}
	assert.Empty(t, PathIntersections(path1, path3))
	assert.False(t, PathHasIntersections(path1, path3))
	assert.False(t, PathHasIntersections(nil, path3))
}

func TestPointInPolygon(t *testing.T) {
	poly := square(0, 0, 10, 10)
	tests := []struct {
		name string
		pt   vec.Vec2
		want bool
	}{
		{name: "inside", pt: vec.Vec2{5, 5}, want: true},
		{name: "outside", pt: vec.Vec2{15, 5}, want: false},
		{name: "outside below", pt: vec.Vec2{5, -1}, want: false},
		{name: "near edge inside", pt: vec.Vec2{9.999, 0.001}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.pt, poly))
		})
	}

	// concave: a U shape, the notch is outside
	u := []vec.Vec2{{0, 0}, {0, 10}, {3, 10}, {3, 3}, {7, 3}, {7, 10}, {10, 10}, {10, 0}, {0, 0}}
	assert.False(t, PointInPolygon(vec.Vec2{5, 6}, u))
	assert.True(t, PointInPolygon(vec.Vec2{1, 6}, u))
	assert.True(t, PointInPolygon(vec.Vec2{5, 1}, u))
	// no closing point is fine
	assert.True(t, PointInPolygon(vec.Vec2{5, 5}, square(0, 0, 10, 10)[:4]))
}

func TestPolygonContainsPolygon(t *testing.T) {
	outer := square(0, 0, 10, 10)
	assert.True(t, PolygonContainsPolygon(outer, square(1, 1, 2, 2)))
	assert.False(t, PolygonContainsPolygon(outer, square(5, 5, 12, 12)))
	assert.False(t, PolygonContainsPolygon(outer, square(20, 20, 30, 30)))
}

func TestPolygonIntersectsPolygon(t *testing.T) {
	outer := square(0, 0, 10, 10)
	tests := []struct {
		name          string
		inner         []vec.Vec2
		checkSegments bool
		want          bool
	}{
		{name: "vertex inside", inner: square(5, 5, 15, 15), want: true},
		{name: "disjoint", inner: square(20, 20, 30, 30), want: false},
		{name: "disjoint with segments", inner: square(20, 20, 30, 30), checkSegments: true, want: false},
		// a plus sign: the shapes overlap but no vertex of the bar is inside
		{name: "cross without segments", inner: square(-5, 4, 15, 6), want: false},
		{name: "cross with segments", inner: square(-5, 4, 15, 6), checkSegments: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolygonIntersectsPolygon(outer, tt.inner, tt.checkSegments))
		})
	}
}

func TestConvexHull(t *testing.T) {
	pts := []vec.Vec2{{0, 0}, {5, 5}, {10, 0}, {10, 10}, {0, 10}, {5, 0}, {2, 3}}
	hull := ConvexHull(pts)
	assert.Equal(t, []vec.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, hull)

	assert.Len(t, ConvexHull([]vec.Vec2{{0, 0}, {1, 1}, {2, 2}}), 2)
	assert.Len(t, ConvexHull([]vec.Vec2{{0, 0}, {1, 1}}), 2)
	assert.Empty(t, ConvexHull(nil))
}

func TestSmallestSurroundingRectangle(t *testing.T) {
	t.Run("axis aligned", func(t *testing.T) {
		ssr, ok := SmallestSurroundingRectangle([]vec.Vec2{{0, 0}, {4, 0}, {4, 2}, {0, 2}, {1, 1}})
		require.True(t, ok)
		require.Len(t, ssr.Poly, 5)
		assert.InDelta(t, 8, Shoelace(ssr.Poly), 1e-9)
		assert.InDelta(t, 0, math.Mod(ssr.Angle, math.Pi/2), 1e-9)
	})

	t.Run("rotated square", func(t *testing.T) {
		// a diamond: the smallest rectangle is the diamond itself, not its bounding box
		ssr, ok := SmallestSurroundingRectangle([]vec.Vec2{{0, -1}, {1, 0}, {0, 1}, {-1, 0}})
		require.True(t, ok)
		assert.InDelta(t, 2, Shoelace(ssr.Poly), 1e-9)
		assert.InDelta(t, math.Pi/4, math.Abs(math.Mod(ssr.Angle, math.Pi/2)), 1e-9)
		for _, p := range ssr.Poly {
			assert.InDelta(t, 1, math.Abs(p[0])+math.Abs(p[1]), 1e-9)
		}
	})

	t.Run("too few points", func(t *testing.T) {
		_, ok := SmallestSurroundingRectangle([]vec.Vec2{{0, 0}, {1, 1}})
		assert.False(t, ok)
		_, ok = SmallestSurroundingRectangle([]vec.Vec2{{0, 0}, {1, 1}, {0, 0}})
		assert.False(t, ok)
	})
}

func TestPathLength(t *testing.T) {
	assert.Equal(t, 6.0, PathLength([]vec.Vec2{{0, 0}, {0, 1}, {3, 5}}))
	assert.Equal(t, 0.0, PathLength([]vec.Vec2{{3, 5}}))
	assert.Equal(t, 0.0, PathLength(nil))
}

func TestShoelace(t *testing.T) {
	var tests = []struct {
		pts  []vec.Vec2
		area float64
	}{
		// Rectangle
		0: {pts: square(0, 0, 10, 10), area: float64(100)},
		// Triangle
		1: {pts: []vec.Vec2{{0, 0}, {5, 10}, {0, 10}, {0, 0}}, area: float64(25)},
		// Missing closing point
		2: {pts: square(0, 0, 10, 10)[:4], area: float64(100)},
		// No point
		3: {pts: nil, area: float64(0.000000)},
	}

	for k, test := range tests {
		area := Shoelace(test.pts)
		if area != test.area {
			t.Errorf("test: %d, expected: %f \ngot: %f", k, test.area, area)
		}
	}
}

func TestWktMustEncode(t *testing.T) {
	s := WktMustEncode(square(0, 0, 1, 1), 0)
	assert.Contains(t, s, "POLYGON")
	truncated := WktMustEncode(square(0, 0, 1, 1), 12)
	assert.LessOrEqual(t, len(truncated), 12)
}
