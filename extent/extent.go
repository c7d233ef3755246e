// Package extent implements an immutable axis-aligned bounding box.
//
// An Extent is either valid (Min <= Max on both axes) or the empty extent,
// which has Min at +Inf and Max at -Inf so that extending it by anything yields
// that anything. Every operation returns a new value.
package extent

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/paulmach/orb"

	"github.com/pdok/viewtiles/mathhelp"
	"github.com/pdok/viewtiles/vec"
)

const (
	equatorialRadius = 6378137.0
	polarRadius      = 6356752.314245179
)

// Extent represents the min (x,y) and max (x,y)
type Extent struct {
	Min vec.Vec2 `json:"min"`
	Max vec.Vec2 `json:"max"`
}

// BBox is the named version of Rectangle
type BBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Empty returns the empty extent
func Empty() Extent {
	return Extent{
		Min: vec.Vec2{math.Inf(1), math.Inf(1)},
		Max: vec.Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// New creates an Extent from two corners
func New(min, max vec.Vec2) Extent {
	return Extent{Min: min, Max: max}
}

// FromPoint creates a zero area Extent
func FromPoint(p vec.Vec2) Extent {
	return Extent{Min: p, Max: p}
}

// FromPoints returns the smallest Extent covering all points, or Empty if there are none.
func FromPoints(pts ...vec.Vec2) Extent {
	e := Empty()
	for _, p := range pts {
		e = e.ExtendPoint(p)
	}
	return e
}

// Bound converts to an orb.Bound
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point(e.Min), Max: orb.Point(e.Max)}
}

/* ========================= ATTRIBUTES ========================= */

// IsEmpty is true for the empty extent (or anything inverted)
func (e Extent) IsEmpty() bool {
	return e.Min[0] > e.Max[0] || e.Min[1] > e.Max[1]
}

func (e Extent) Equals(o Extent) bool {
	return e.Min == o.Min && e.Max == o.Max
}

// Area is |dx * dy|. It is +Inf for the empty extent.
func (e Extent) Area() float64 {
	return math.Abs((e.Max[0] - e.Min[0]) * (e.Max[1] - e.Min[1]))
}

func (e Extent) Center() vec.Vec2 {
	return vec.Vec2{(e.Min[0] + e.Max[0]) / 2, (e.Min[1] + e.Max[1]) / 2}
}

// Rectangle returns [minX, minY, maxX, maxY]
func (e Extent) Rectangle() [4]float64 {
	return [4]float64{e.Min[0], e.Min[1], e.Max[0], e.Max[1]}
}

func (e Extent) BBox() BBox {
	return BBox{MinX: e.Min[0], MinY: e.Min[1], MaxX: e.Max[0], MaxY: e.Max[1]}
}

// Polygon returns a closed clockwise ring (in a y-up space), starting and ending at Min:
// (minX,minY), (minX,maxY), (maxX,maxY), (maxX,minY), (minX,minY)
func (e Extent) Polygon() []vec.Vec2 {
	return []vec.Vec2{
		{e.Min[0], e.Min[1]},
		{e.Min[0], e.Max[1]},
		{e.Max[0], e.Max[1]},
		{e.Max[0], e.Min[1]},
		{e.Min[0], e.Min[1]},
	}
}

// ToParam returns "minX,minY,maxX,maxY", suitable for a bbox query parameter
func (e Extent) ToParam() string {
	r := e.Rectangle()
	s := make([]string, len(r))
	for i, o := range r {
		s[i] = strconv.FormatFloat(o, 'f', -1, 64)
	}
	return strings.Join(s, ",")
}

// String encodes the extent as a WKT polygon
func (e Extent) String() string {
	if e.IsEmpty() {
		return "POLYGON EMPTY"
	}
	return wkt.MustEncode(geom.Polygon{vec.Points(e.Polygon())})
}

/* ========================= RELATIONS ========================= */

// Contains is true if o lies fully within e, boundary inclusive
func (e Extent) Contains(o Extent) bool {
	return o.Min[0] >= e.Min[0] && o.Min[1] >= e.Min[1] &&
		o.Max[0] <= e.Max[0] && o.Max[1] <= e.Max[1]
}

// Intersects is true if the boxes overlap or touch
func (e Extent) Intersects(o Extent) bool {
	return o.Min[0] <= e.Max[0] && o.Min[1] <= e.Max[1] &&
		o.Max[0] >= e.Min[0] && o.Max[1] >= e.Min[1]
}

// Intersection returns the overlapping box, or Empty
func (e Extent) Intersection(o Extent) Extent {
	if !e.Intersects(o) {
		return Empty()
	}
	return Extent{
		Min: vec.Vec2{math.Max(e.Min[0], o.Min[0]), math.Max(e.Min[1], o.Min[1])},
		Max: vec.Vec2{math.Min(e.Max[0], o.Max[0]), math.Min(e.Max[1], o.Max[1])},
	}
}

// Extend returns the smallest extent covering both e and o
func (e Extent) Extend(o Extent) Extent {
	return Extent{
		Min: vec.Vec2{math.Min(e.Min[0], o.Min[0]), math.Min(e.Min[1], o.Min[1])},
		Max: vec.Vec2{math.Max(e.Max[0], o.Max[0]), math.Max(e.Max[1], o.Max[1])},
	}
}

func (e Extent) ExtendPoint(p vec.Vec2) Extent {
	return e.Extend(FromPoint(p))
}

// PercentContainedIn returns the share of e's area that lies within o, in [0, 1].
//
// Any infinite area (e.g. the empty extent) gives 0.
// A zero area e gives 1 when it lies within o (boundary inclusive) and 0 otherwise.
// Otherwise it is area(e ∩ o) / area(e), which is 0 when the boxes only touch.
func (e Extent) PercentContainedIn(o Extent) float64 {
	a1 := e.Area()
	a2 := o.Area()
	if math.IsInf(a1, 0) || math.IsInf(a2, 0) {
		return 0
	}
	if a1 == 0 {
		if o.Contains(e) {
			return 1
		}
		return 0
	}
	i := e.Intersection(o).Area()
	if i == 0 || math.IsInf(i, 0) {
		return 0
	}
	return i / a1
}

// PadByMeters grows a lon/lat extent by a distance in meters on all sides.
// The longitudinal padding is measured at the center latitude and is 0 at or beyond the poles.
func (e Extent) PadByMeters(meters float64) Extent {
	dLat := MetersToLat(meters)
	dLon := MetersToLon(meters, e.Center()[1])
	return Extent{
		Min: vec.Vec2{e.Min[0] - dLon, e.Min[1] - dLat},
		Max: vec.Vec2{e.Max[0] + dLon, e.Max[1] + dLat},
	}
}

// MetersToLat converts a north/south distance to degrees latitude
func MetersToLat(m float64) float64 {
	return m / (mathhelp.Tau * polarRadius / 360)
}

// MetersToLon converts an east/west distance at a latitude to degrees longitude
func MetersToLon(m, atLat float64) float64 {
	if math.Abs(atLat) >= 90 {
		return 0
	}
	return m / (mathhelp.Tau * equatorialRadius / 360 * math.Abs(math.Cos(atLat*mathhelp.Deg2Rad)))
}
