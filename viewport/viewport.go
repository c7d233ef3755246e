// Package viewport projects between WGS84 lon/lat and the pixels of a (rotated) screen.
//
// Screen space has its origin top left with y pointing down. The geographic projection is
// spherical (web) mercator, scaled by the zoom of the transform and translated by its x and y.
// A rotation r turns the map around the center of the screen.
//
// Next to screen pixels there is world pixel space: the whole mercator world as a single
// 256x256 tile (zoom 0), origin top left. It doesn't depend on the transform.
package viewport

import (
	"math"

	"github.com/pdok/viewtiles/extent"
	"github.com/pdok/viewtiles/mathhelp"
	"github.com/pdok/viewtiles/transform"
	"github.com/pdok/viewtiles/vec"
)

const (
	// TileSize is the size in pixels of a tile the zoom levels are defined for
	TileSize     = 256
	halfTileSize = TileSize / 2

	// MaxLatitude is the northern bound of web mercator: 2*atan(e^pi) - pi/2
	MaxLatitude = 85.0511287798
	MinLatitude = -MaxLatitude
)

// ZoomToScale returns k, the number of pixels per radian longitude at zoom z
func ZoomToScale(z float64, tileSize float64) float64 {
	return tileSize * math.Pow(2, z) / mathhelp.Tau
}

// ScaleToZoom is the inverse of ZoomToScale
func ScaleToZoom(k float64, tileSize float64) float64 {
	return math.Log2(k * mathhelp.Tau / tileSize)
}

// Viewport is a Transform with the dimensions of the screen in pixels.
type Viewport struct {
	transform  *transform.Transform
	dimensions vec.Vec2
	version    uint64
}

// New creates a Viewport. A nil transform means a fresh transform.New().
// The transform is shared, changes to it are visible through the Viewport.
func New(t *transform.Transform, dimensions vec.Vec2) *Viewport {
	if t == nil {
		t = transform.New()
	}
	v := &Viewport{transform: t}
	v.SetDimensions(dimensions)
	v.version = 0
	return v
}

func (v *Viewport) Transform() *transform.Transform {
	return v.transform
}

// SetTransform updates the transform and returns the version of the Viewport
func (v *Viewport) SetTransform(opts ...transform.Option) uint64 {
	v.transform.Set(opts...)
	return v.Version()
}

// Dimensions returns the width and height of the screen
func (v *Viewport) Dimensions() vec.Vec2 {
	return v.dimensions
}

// SetDimensions changes the width and/or height and returns the version of the Viewport.
// A component that is negative or not finite is ignored.
func (v *Viewport) SetDimensions(dimensions vec.Vec2) uint64 {
	changed := false
	for i, d := range dimensions {
		if !mathhelp.IsFinite(d) || d < 0 || v.dimensions[i] == d {
			continue
		}
		v.dimensions[i] = d
		changed = true
	}
	if changed {
		v.version++
	}
	return v.Version()
}

// Version changes whenever the dimensions or the transform change
func (v *Viewport) Version() uint64 {
	return v.version + v.transform.Version()
}

// Center of the screen in pixels
func (v *Viewport) Center() vec.Vec2 {
	return v.dimensions.Scale(0.5)
}

// Scale is k, pixels per radian longitude
func (v *Viewport) Scale() float64 {
	return ZoomToScale(v.transform.Z(), TileSize)
}

// Project converts lon/lat (degrees) to screen pixels.
// Latitudes are clamped to the mercator bounds.
func (v *Viewport) Project(loc vec.Vec2, includeRotation bool) vec.Vec2 {
	k := v.Scale()
	lambda := loc[0] * mathhelp.Deg2Rad
	phi := mathhelp.Clamp(loc[1], MinLatitude, MaxLatitude) * mathhelp.Deg2Rad
	mercatorX := lambda
	mercatorY := math.Log(math.Tan(math.Pi/4 + phi/2))
	point := vec.Vec2{
		mercatorX*k + v.transform.X(),
		v.transform.Y() - mercatorY*k,
	}
	if r := v.transform.R(); includeRotation && r != 0 {
		return point.Rotate(r, v.Center())
	}
	return point
}

// Unproject converts screen pixels to lon/lat (degrees)
func (v *Viewport) Unproject(point vec.Vec2, includeRotation bool) vec.Vec2 {
	if r := v.transform.R(); includeRotation && r != 0 {
		point = point.Rotate(-r, v.Center())
	}
	k := v.Scale()
	mercatorX := (point[0] - v.transform.X()) / k
	mercatorY := (v.transform.Y() - point[1]) / k
	return vec.Vec2{
		mercatorX * mathhelp.Rad2Deg,
		(2*math.Atan(math.Exp(mercatorY)) - math.Pi/2) * mathhelp.Rad2Deg,
	}
}

// ScreenToWorld converts an unrotated screen pixel to a world pixel
func (v *Viewport) ScreenToWorld(point vec.Vec2) vec.Vec2 {
	s := halfTileSize / math.Pi / v.Scale()
	return vec.Vec2{
		halfTileSize + (point[0]-v.transform.X())*s,
		halfTileSize + (point[1]-v.transform.Y())*s,
	}
}

// WorldToScreen is the inverse of ScreenToWorld
func (v *Viewport) WorldToScreen(world vec.Vec2) vec.Vec2 {
	s := v.Scale() * math.Pi / halfTileSize
	return vec.Vec2{
		(world[0]-halfTileSize)*s + v.transform.X(),
		(world[1]-halfTileSize)*s + v.transform.Y(),
	}
}

// WorldToLonLat converts a world pixel to lon/lat (degrees)
func WorldToLonLat(world vec.Vec2) vec.Vec2 {
	mercatorX := (world[0] - halfTileSize) * math.Pi / halfTileSize
	mercatorY := (halfTileSize - world[1]) * math.Pi / halfTileSize
	return vec.Vec2{
		mercatorX * mathhelp.Rad2Deg,
		(2*math.Atan(math.Exp(mercatorY)) - math.Pi/2) * mathhelp.Rad2Deg,
	}
}

// LonLatToWorld converts lon/lat (degrees) to a world pixel
func LonLatToWorld(loc vec.Vec2) vec.Vec2 {
	lambda := loc[0] * mathhelp.Deg2Rad
	phi := mathhelp.Clamp(loc[1], MinLatitude, MaxLatitude) * mathhelp.Deg2Rad
	mercatorY := math.Log(math.Tan(math.Pi/4 + phi/2))
	return vec.Vec2{
		halfTileSize + lambda*halfTileSize/math.Pi,
		halfTileSize - mercatorY*halfTileSize/math.Pi,
	}
}

// VisiblePolygon returns a closed ring in screen pixels around everything that is visible.
//
// Unrotated that is the screen itself: (0,0), (0,h), (w,h), (w,0), (0,0).
// Rotated it is the north-up bounding box of the visible map, which on screen is a rectangle
// turned by r around the center, containing the screen and touching each of its corners.
// Its first vertex is the one that is top left when north is up, then bottom left,
// bottom right, top right, so the first and third vertex are its min and max.
func (v *Viewport) VisiblePolygon() []vec.Vec2 {
	w, h := v.dimensions[0], v.dimensions[1]
	r := v.transform.R()
	if r == 0 {
		return []vec.Vec2{{0, 0}, {0, h}, {w, h}, {w, 0}, {0, 0}}
	}

	sin, cos := math.Sincos(r)
	sin, cos = math.Abs(sin), math.Abs(cos)
	ae := w * sin
	af := h * cos
	ex := ae * sin
	ey := ae * cos
	fx := af * sin
	fy := af * cos

	var e, f, g, hh vec.Vec2
	switch {
	case r < math.Pi/2:
		e = vec.Vec2{ex, -ey}
		f = vec.Vec2{-fx, fy}
		g = vec.Vec2{w - ex, h + ey}
		hh = vec.Vec2{w + fx, h - fy}
	case r < math.Pi:
		e = vec.Vec2{w + fx, fy}
		f = vec.Vec2{w - ex, -ey}
		g = vec.Vec2{-fx, h - fy}
		hh = vec.Vec2{ex, h + ey}
	case r < 3*math.Pi/2:
		e = vec.Vec2{w - ex, h + ey}
		f = vec.Vec2{w + fx, h - fy}
		g = vec.Vec2{ex, -ey}
		hh = vec.Vec2{-fx, fy}
	default:
		e = vec.Vec2{-fx, h - fy}
		f = vec.Vec2{ex, h + ey}
		g = vec.Vec2{w + fx, fy}
		hh = vec.Vec2{w - ex, -ey}
	}
	return []vec.Vec2{e, f, g, hh, e}
}

// VisibleDimensions is the size of the north-up bounding box of the visible map, in pixels
func (v *Viewport) VisibleDimensions() vec.Vec2 {
	w, h := v.dimensions[0], v.dimensions[1]
	sin, cos := math.Sincos(v.transform.R())
	sin, cos = math.Abs(sin), math.Abs(cos)
	return vec.Vec2{
		ceil(w*cos + h*sin),
		ceil(h*cos + w*sin),
	}
}

// ceil ignores the noise sin and cos leave at multiples of pi/2, e.g. sin(pi) = 1.2e-16
func ceil(f float64) float64 {
	return math.Ceil(f - 1e-9)
}

// VisibleExtent is the lon/lat extent of VisiblePolygon
func (v *Viewport) VisibleExtent() extent.Extent {
	poly := v.VisiblePolygon()
	locs := make([]vec.Vec2, 0, len(poly)-1)
	for _, p := range poly[:len(poly)-1] {
		locs = append(locs, v.Unproject(p, true))
	}
	return extent.FromPoints(locs...)
}
