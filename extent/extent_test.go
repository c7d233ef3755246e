package extent

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/viewtiles/vec"
)

func TestExtent_Attributes(t *testing.T) {
	e := New(vec.Vec2{0, 0}, vec.Vec2{5, 10})
	assert.Equal(t, 50.0, e.Area())
	assert.Equal(t, vec.Vec2{2.5, 5}, e.Center())
	assert.Equal(t, [4]float64{0, 0, 5, 10}, e.Rectangle())
	assert.Equal(t, BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 10}, e.BBox())
	assert.Equal(t, "0,0,5,10", e.ToParam())
	assert.Equal(t, "-1.5,0.25,5,10", New(vec.Vec2{-1.5, 0.25}, vec.Vec2{5, 10}).ToParam())

	poly := e.Polygon()
	require.Len(t, poly, 5)
	assert.Equal(t, e.Min, poly[0])
	assert.Equal(t, e.Min, poly[4])
	assert.Equal(t, []vec.Vec2{{0, 0}, {0, 10}, {5, 10}, {5, 0}, {0, 0}}, poly)
}

func TestExtent_Empty(t *testing.T) {
	e := Empty()
	assert.True(t, e.IsEmpty())
	assert.True(t, math.IsInf(e.Area(), 1))
	assert.Equal(t, "POLYGON EMPTY", e.String())

	p := FromPoint(vec.Vec2{1, 2})
	assert.False(t, p.IsEmpty())
	assert.True(t, e.Extend(p).Equals(p))
	assert.True(t, FromPoints().IsEmpty())
	assert.Equal(t, New(vec.Vec2{-1, 0}, vec.Vec2{3, 4}), FromPoints(vec.Vec2{3, 0}, vec.Vec2{-1, 4}, vec.Vec2{0, 1}))
}

func TestExtent_Contains(t *testing.T) {
	a := New(vec.Vec2{0, 0}, vec.Vec2{5, 5})
	tests := []struct {
		name  string
		other Extent
		want  bool
	}{
		{name: "inside", other: New(vec.Vec2{1, 1}, vec.Vec2{2, 2}), want: true},
		{name: "itself", other: a, want: true},
		{name: "touching boundary", other: New(vec.Vec2{0, 0}, vec.Vec2{5, 1}), want: true},
		{name: "overlapping", other: New(vec.Vec2{1, 1}, vec.Vec2{6, 2}), want: false},
		{name: "outside", other: New(vec.Vec2{6, 6}, vec.Vec2{7, 7}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Contains(tt.other))
		})
	}
}

func TestExtent_IntersectsAndIntersection(t *testing.T) {
	a := New(vec.Vec2{0, 0}, vec.Vec2{5, 5})
	tests := []struct {
		name       string
		other      Extent
		intersects bool
		want       Extent
	}{
		{name: "overlap", other: New(vec.Vec2{3, 3}, vec.Vec2{8, 8}), intersects: true,
			want: New(vec.Vec2{3, 3}, vec.Vec2{5, 5})},
		{name: "touching edge", other: New(vec.Vec2{5, 0}, vec.Vec2{8, 5}), intersects: true,
			want: New(vec.Vec2{5, 0}, vec.Vec2{5, 5})},
		{name: "touching corner", other: New(vec.Vec2{5, 5}, vec.Vec2{8, 8}), intersects: true,
			want: FromPoint(vec.Vec2{5, 5})},
		{name: "disjoint", other: New(vec.Vec2{6, 0}, vec.Vec2{8, 5}), intersects: false,
			want: Empty()},
		{name: "contained", other: New(vec.Vec2{1, 1}, vec.Vec2{2, 2}), intersects: true,
			want: New(vec.Vec2{1, 1}, vec.Vec2{2, 2})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersects, a.Intersects(tt.other))
			assert.Equal(t, tt.intersects, tt.other.Intersects(a))
			assert.Equal(t, tt.want, a.Intersection(tt.other))
			assert.Equal(t, a.Intersection(tt.other), tt.other.Intersection(a))
		})
	}
}

func TestExtent_Extend(t *testing.T) {
	pairs := [][2]Extent{
		{New(vec.Vec2{0, 0}, vec.Vec2{5, 5}), New(vec.Vec2{3, -2}, vec.Vec2{9, 4})},
		{New(vec.Vec2{0, 0}, vec.Vec2{1, 1}), FromPoint(vec.Vec2{-4, 7})},
		{Empty(), New(vec.Vec2{1, 1}, vec.Vec2{2, 2})},
	}
	for _, p := range pairs {
		ext := p[0].Extend(p[1])
		assert.True(t, ext.Contains(p[1]), "%v should contain %v", ext, p[1])
		if !p[0].IsEmpty() {
			assert.True(t, ext.Contains(p[0]), "%v should contain %v", ext, p[0])
		}
		assert.Equal(t, ext, p[1].Extend(p[0]))
	}
	assert.Equal(t, New(vec.Vec2{0, -2}, vec.Vec2{9, 5}), pairs[0][0].Extend(pairs[0][1]))
}

func TestExtent_PercentContainedIn(t *testing.T) {
	a := New(vec.Vec2{0, 0}, vec.Vec2{4, 4})
	tests := []struct {
		name string
		e    Extent
		o    Extent
		want float64
	}{
		{name: "fully within", e: New(vec.Vec2{1, 1}, vec.Vec2{2, 2}), o: a, want: 1},
		{name: "quarter", e: New(vec.Vec2{2, 2}, vec.Vec2{6, 6}), o: a, want: 0.25},
		{name: "half", e: New(vec.Vec2{-2, 0}, vec.Vec2{2, 4}), o: a, want: 0.5},
		{name: "disjoint", e: New(vec.Vec2{5, 5}, vec.Vec2{6, 6}), o: a, want: 0},
		{name: "only touching", e: New(vec.Vec2{4, 0}, vec.Vec2{6, 4}), o: a, want: 0},
		{name: "zero area inside", e: FromPoint(vec.Vec2{1, 1}), o: a, want: 1},
		{name: "zero area on boundary", e: New(vec.Vec2{0, 1}, vec.Vec2{0, 3}), o: a, want: 1},
		{name: "zero area outside", e: FromPoint(vec.Vec2{9, 9}), o: a, want: 0},
		{name: "empty self", e: Empty(), o: a, want: 0},
		{name: "empty other", e: a, o: Empty(), want: 0},
		{name: "infinite other", e: a, o: New(vec.Vec2{math.Inf(-1), 0}, vec.Vec2{0, 1}), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.e.PercentContainedIn(tt.o), 1e-12)
		})
	}
}

func TestExtent_PadByMeters(t *testing.T) {
	e := FromPoint(vec.Vec2{0, 0})
	padded := e.PadByMeters(1000)
	dLat := 1000 / (2 * math.Pi * polarRadius / 360)
	dLon := 1000 / (2 * math.Pi * equatorialRadius / 360)
	assert.InDelta(t, -dLon, padded.Min[0], 1e-12)
	assert.InDelta(t, -dLat, padded.Min[1], 1e-12)
	assert.InDelta(t, dLon, padded.Max[0], 1e-12)
	assert.InDelta(t, dLat, padded.Max[1], 1e-12)

	// further from the equator a meter spans more longitude
	north := FromPoint(vec.Vec2{5, 60}).PadByMeters(1000)
	assert.InDelta(t, 2*dLon, north.Max[0]-5, 1e-9)

	pole := FromPoint(vec.Vec2{5, 90}).PadByMeters(1000)
	assert.Equal(t, 5.0, pole.Min[0])
	assert.Equal(t, 5.0, pole.Max[0])
}

func TestExtent_Conversions(t *testing.T) {
	e := New(vec.Vec2{1, 2}, vec.Vec2{3, 4})
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}}, e.Bound())
	assert.Contains(t, e.String(), "POLYGON")
	assert.Contains(t, e.String(), "1 4")
}
