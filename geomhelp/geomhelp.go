// Package geomhelp contains polygon and segment predicates on plain vec.Vec2 paths.
//
// Polygons are rings: slices of points where the last point may (and usually does) repeat the first.
package geomhelp

import (
	"math"
	"sort"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/pdok/viewtiles/extent"
	"github.com/pdok/viewtiles/vec"
)

// EdgeEqual compares two edges regardless of direction
func EdgeEqual[T comparable](a, b [2]T) bool {
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}

// RotatePoints rotates all points counterclockwise by angle (radians) around pivot
func RotatePoints(points []vec.Vec2, angle float64, pivot vec.Vec2) []vec.Vec2 {
	rotated := make([]vec.Vec2, len(points))
	for i, p := range points {
		rotated[i] = p.Rotate(angle, pivot)
	}
	return rotated
}

// LineIntersection finds the point where segments a and b cross.
// ok is false if they don't, if they are parallel or colinear (even when overlapping),
// or if a or b is not a segment of exactly 2 points.
// ref: https://stackoverflow.com/a/565282
func LineIntersection(a, b []vec.Vec2) (pt vec.Vec2, ok bool) {
	if len(a) != 2 || len(b) != 2 {
		return pt, false
	}
	p, q := a[0], b[0]
	r := a[1].Sub(p)
	s := b[1].Sub(q)
	denominator := r.Cross(s)
	if denominator == 0 {
		return pt, false
	}
	qp := q.Sub(p)
	t := qp.Cross(s) / denominator
	u := qp.Cross(r) / denominator
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return pt, false
	}
	return vec.Interp(p, a[1], t), true
}

// PathIntersections returns every crossing between the segments of path1 and path2
func PathIntersections(path1, path2 []vec.Vec2) []vec.Vec2 {
	var intersections []vec.Vec2
	for i := 0; i < len(path1)-1; i++ {
		for j := 0; j < len(path2)-1; j++ {
			if pt, ok := LineIntersection(path1[i:i+2], path2[j:j+2]); ok {
				intersections = append(intersections, pt)
			}
		}
	}
	return intersections
}

// PathHasIntersections is PathIntersections, stopping at the first hit
func PathHasIntersections(path1, path2 []vec.Vec2) bool {
	for i := 0; i < len(path1)-1; i++ {
		for j := 0; j < len(path2)-1; j++ {
			if _, ok := LineIntersection(path1[i:i+2], path2[j:j+2]); ok {
				return true
			}
		}
	}
	return false
}

// PointInPolygon is the even-odd ray casting test (PNPOLY).
// Points exactly on an edge may fall either way.
// ref: https://wrf.ecse.rpi.edu/Research/Short_Notes/pnpoly.html
func PointInPolygon(point vec.Vec2, polygon []vec.Vec2) bool {
	x, y := point[0], point[1]
	inside := false
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		xi, yi := polygon[i][0], polygon[i][1]
		xj, yj := polygon[j][0], polygon[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PolygonContainsPolygon is a lax test: all vertices of inner lie in outer, segments are not checked
func PolygonContainsPolygon(outer, inner []vec.Vec2) bool {
	for _, p := range inner {
		if !PointInPolygon(p, outer) {
			return false
		}
	}
	return true
}

// PolygonIntersectsPolygon is true if a vertex of inner lies in outer.
// That misses overlapping shapes that have no vertex inside each other,
// so pass checkSegments to also look for crossing edges.
func PolygonIntersectsPolygon(outer, inner []vec.Vec2, checkSegments bool) bool {
	for _, p := range inner {
		if PointInPolygon(p, outer) {
			return true
		}
	}
	return checkSegments && PathHasIntersections(outer, inner)
}

// SSR is a smallest surrounding rectangle: a closed ring and the angle (radians) it is rotated by
type SSR struct {
	Poly  []vec.Vec2
	Angle float64
}

// SmallestSurroundingRectangle finds the minimum area rectangle, at any rotation, around points,
// by aligning it with every edge of the convex hull in turn (rotating calipers).
// ok is false when the points have no hull (fewer than 3 non-colinear points).
func SmallestSurroundingRectangle(points []vec.Vec2) (ssr SSR, ok bool) {
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return ssr, false
	}
	centroid := polygonCentroid(hull)

	minArea := math.Inf(1)
	var ssrExtent extent.Extent
	c1 := hull[0]
	for i := range hull {
		c2 := hull[(i+1)%len(hull)]
		angle := vec.Angle(c1, c2)
		e := extent.FromPoints(RotatePoints(hull, -angle, centroid)...)
		if area := e.Area(); area < minArea {
			minArea = area
			ssrExtent = e
			ssr.Angle = angle
		}
		c1 = c2
	}
	ssr.Poly = RotatePoints(ssrExtent.Polygon(), ssr.Angle, centroid)
	return ssr, true
}

// ConvexHull returns the hull of points in counterclockwise order (y up), without repeating the first point.
// Colinear points on the hull are left out. Fewer than 3 points result when there is no proper hull.
// ref: https://en.wikibooks.org/wiki/Algorithm_Implementation/Geometry/Convex_hull/Monotone_chain
func ConvexHull(points []vec.Vec2) []vec.Vec2 {
	pts := make([]vec.Vec2, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})
	if len(pts) < 3 {
		return pts
	}
	turn := func(o, a, b vec.Vec2) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}
	hull := make([]vec.Vec2, 0, 2*len(pts))
	for _, p := range pts { // lower
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lowerLen := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- { // upper
		p := pts[i]
		for len(hull) >= lowerLen && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func polygonCentroid(ring []vec.Vec2) vec.Vec2 {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		r = append(r, orb.Point(p))
	}
	if !r.Closed() {
		r = append(r, r[0])
	}
	centroid, _ := planar.CentroidArea(orb.Polygon{r})
	return vec.Vec2(centroid)
}

// PathLength sums the lengths of all segments of path
func PathLength(path []vec.Vec2) float64 {
	length := 0.
	for i := 0; i < len(path)-1; i++ {
		length += path[i].Dist(path[i+1])
	}
	return length
}

// https://en.wikipedia.org/wiki/Shoelace_formula
func Shoelace(pts []vec.Vec2) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	p0 := pts[len(pts)-1]
	for _, p1 := range pts {
		sum += p0[1]*p1[0] - p0[0]*p1[1]
		p0 = p1
	}
	return math.Abs(sum / 2)
}

// WktMustEncode encodes a ring as a WKT polygon, truncated to maxLen characters (0 means no limit)
func WktMustEncode(ring []vec.Vec2, maxLen uint) string {
	return wktMustEncodeTruncated(geom.Polygon{vec.Points(ring)}, maxLen)
}

func wktMustEncodeTruncated(geom geom.Geometry, width uint) string {
	if width == 0 {
		return wkt.MustEncode(geom)
	}
	return truncate.StringWithTail(wkt.MustEncode(geom), width, "...")
}
