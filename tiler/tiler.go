// Package tiler computes which map tiles cover a (rotated) viewport.
//
// Tiles are square and north-up in world pixel space (see package viewport), so the polygons
// of the screen are turned north-up before they're compared to the tile grid.
package tiler

import (
	"fmt"
	"math"

	"github.com/paulmach/orb/maptile"

	"github.com/pdok/viewtiles/extent"
	"github.com/pdok/viewtiles/geomhelp"
	"github.com/pdok/viewtiles/mapslicehelp"
	"github.com/pdok/viewtiles/mathhelp"
	"github.com/pdok/viewtiles/vec"
	"github.com/pdok/viewtiles/viewport"
)

// Tiler holds a Config. Getters and setters aren't safe for concurrent use, GetTiles is.
type Tiler struct {
	cfg Config
}

// New returns a Tiler for a valid config
func New(cfg Config) (*Tiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tiler{cfg: cfg}, nil
}

func (t *Tiler) Config() Config        { return t.cfg }
func (t *Tiler) TileSize() uint        { return t.cfg.TileSize }
func (t *Tiler) ZoomRange() (int, int) { return t.cfg.MinZoom, t.cfg.MaxZoom }
func (t *Tiler) Margin() uint          { return t.cfg.Margin }
func (t *Tiler) SkipNullIsland() bool  { return t.cfg.SkipNullIsland }

// SetConfig replaces the whole config if it's valid
func (t *Tiler) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	t.cfg = cfg
	return nil
}

func (t *Tiler) SetTileSize(tileSize uint) error {
	cfg := t.cfg
	cfg.TileSize = tileSize
	return t.SetConfig(cfg)
}

func (t *Tiler) SetZoomRange(minZoom, maxZoom int) error {
	cfg := t.cfg
	cfg.MinZoom = minZoom
	cfg.MaxZoom = maxZoom
	return t.SetConfig(cfg)
}

func (t *Tiler) SetMargin(margin uint) {
	t.cfg.Margin = margin
}

func (t *Tiler) SetSkipNullIsland(skip bool) {
	t.cfg.SkipNullIsland = skip
}

// Tile is a tile of the web mercator grid covering (part of) a viewport
type Tile struct {
	// "x,y,z"
	ID  string   `json:"id"`
	XYZ [3]int64 `json:"xyz"`
	// Extent in world pixels
	PxExtent extent.Extent `json:"pxExtent"`
	// Extent in lon/lat
	WGS84Extent extent.Extent `json:"wgs84Extent"`
	// False for tiles that are only in the margin
	IsVisible bool `json:"isVisible"`
}

func (tile Tile) X() int64 { return tile.XYZ[0] }
func (tile Tile) Y() int64 { return tile.XYZ[1] }
func (tile Tile) Z() int64 { return tile.XYZ[2] }

// TileResult holds the visible tiles first, then the tiles in the margin
type TileResult struct {
	Tiles []Tile `json:"tiles"`
}

// GetTiles returns the tiles covering the viewport (and its margin), at the integer zoom level
// closest to the zoom of the viewport, corrected for the tile size.
//
//nolint:funlen
func (t *Tiler) GetTiles(v *viewport.Viewport) TileResult {
	cfg := t.cfg
	dimensions := v.Dimensions()
	w, h := dimensions[0], dimensions[1]
	tileSize := float64(cfg.TileSize)
	marginPx := float64(cfg.Margin) * tileSize
	r := v.Transform().R()

	screenPolygon := rectangle(0, 0, w, h)
	marginPolygon := rectangle(-marginPx, -marginPx, w+marginPx, h+marginPx)
	visiblePolygon := v.VisiblePolygon()

	// turn north-up, the tile grid is never rotated
	if r != 0 {
		center := v.Center()
		screenPolygon = geomhelp.RotatePoints(screenPolygon, -r, center)
		marginPolygon = geomhelp.RotatePoints(marginPolygon, -r, center)
		visiblePolygon = geomhelp.RotatePoints(visiblePolygon, -r, center)
	}
	if marginPx > 0 {
		visiblePolygon = pad(visiblePolygon, marginPx)
	}

	screenPolygon = toWorld(v, screenPolygon)
	marginPolygon = toWorld(v, marginPolygon)
	visiblePolygon = toWorld(v, visiblePolygon)
	world := extent.FromPoints(visiblePolygon[0], visiblePolygon[2])

	z := tileZoom(v.Transform().Z(), tileSize, cfg.MinZoom, cfg.MaxZoom)
	pow2z := math.Pow(2, float64(z))
	minTile, maxTile := 0.0, pow2z-1
	tileSpan := viewport.TileSize / pow2z

	cols := [2]int64{
		int64(mathhelp.Clamp(math.Floor(world.Min[0]/tileSpan), minTile, maxTile)),
		int64(mathhelp.Clamp(math.Floor(world.Max[0]/tileSpan), minTile, maxTile)),
	}
	rows := [2]int64{
		int64(mathhelp.Clamp(math.Floor(world.Min[1]/tileSpan), minTile, maxTile)),
		int64(mathhelp.Clamp(math.Floor(world.Max[1]/tileSpan), minTile, maxTile)),
	}

	var visible, hidden []Tile
	for y := rows[0]; y <= rows[1]; y++ {
		for x := cols[0]; x <= cols[1]; x++ {
			if cfg.SkipNullIsland && IsNearNullIsland(x, y, z) {
				continue
			}
			pxExtent := extent.New(
				vec.Vec2{float64(x) * tileSpan, float64(y) * tileSpan},
				vec.Vec2{float64(x+1) * tileSpan, float64(y+1) * tileSpan},
			)
			tilePolygon := pxExtent.Polygon()
			if !overlaps(marginPolygon, tilePolygon, r != 0) {
				continue
			}
			tile := Tile{
				ID:        fmt.Sprintf("%d,%d,%d", x, y, z),
				XYZ:       [3]int64{x, y, z},
				PxExtent:  pxExtent,
				IsVisible: overlaps(screenPolygon, tilePolygon, r != 0),
				WGS84Extent: lonLatExtent(x, y, z),
			}
			if tile.IsVisible {
				visible = append(visible, tile)
			} else {
				hidden = append(hidden, tile)
			}
		}
	}

	// visible tiles go in front, each one before the previous
	tiles := make([]Tile, 0, len(visible)+len(hidden))
	tiles = append(tiles, mapslicehelp.ReverseClone(visible)...)
	tiles = append(tiles, hidden...)
	return TileResult{Tiles: tiles}
}

// tileZoom rounds the zoom of the viewport to the tile zoom,
// one level lower for every doubling of the tile size beyond 256
func tileZoom(zoom, tileSize float64, minZoom, maxZoom int) int64 {
	log2ts := math.Log2(tileSize / viewport.TileSize)
	return int64(mathhelp.Clamp(int(math.Round(zoom-log2ts)), minZoom, maxZoom))
}

// overlaps checks for a vertex of one polygon inside the other,
// and when rotated (where that misses crossings) for crossing edges
func overlaps(polygon, tilePolygon []vec.Vec2, rotated bool) bool {
	if geomhelp.PolygonIntersectsPolygon(polygon, tilePolygon, false) ||
		geomhelp.PolygonIntersectsPolygon(tilePolygon, polygon, false) {
		return true
	}
	return rotated && geomhelp.PathHasIntersections(polygon, tilePolygon)
}

// IsNearNullIsland is true for the tiles in the 1/32nd of the world around lon/lat 0,0,
// from zoom 7 on. Those tend to attract bad data.
func IsNearNullIsland(x, y, z int64) bool {
	if z < 7 {
		return false
	}
	center := int64(1) << (z - 1)
	width := int64(1) << (z - 6)
	minTile := center - width/2
	maxTile := center + width/2 - 1
	return mathhelp.BetweenInc(x, minTile, maxTile) && mathhelp.BetweenInc(y, minTile, maxTile)
}

// rectangle returns a closed ring in the same order as an unrotated viewport.VisiblePolygon
func rectangle(minX, minY, maxX, maxY float64) []vec.Vec2 {
	return []vec.Vec2{{minX, minY}, {minX, maxY}, {maxX, maxY}, {maxX, minY}, {minX, minY}}
}

// pad grows a north-up rectangle by d on all sides
func pad(polygon []vec.Vec2, d float64) []vec.Vec2 {
	e := extent.FromPoints(polygon...)
	return rectangle(e.Min[0]-d, e.Min[1]-d, e.Max[0]+d, e.Max[1]+d)
}

// lonLatExtent is the WGS84 bound of a tile
func lonLatExtent(x, y, z int64) extent.Extent {
	bound := maptile.New(uint32(x), uint32(y), maptile.Zoom(z)).Bound()
	return extent.New(vec.Vec2(bound.Min), vec.Vec2(bound.Max))
}

func toWorld(v *viewport.Viewport, polygon []vec.Vec2) []vec.Vec2 {
	world := make([]vec.Vec2, len(polygon))
	for i, p := range polygon {
		world[i] = v.ScreenToWorld(p)
	}
	return world
}
