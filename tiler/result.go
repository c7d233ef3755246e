package tiler

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/viewtiles/morton"
	"github.com/pdok/viewtiles/vec"
)

// QuadKey of the tile, see morton.QuadKey
func (tile Tile) QuadKey() string {
	if tile.X() < 0 || tile.Y() < 0 || tile.Z() < 0 {
		return ""
	}
	key, _ := morton.QuadKey(uint(tile.X()), uint(tile.Y()), uint(tile.Z()))
	return key
}

// Polygon is the closed lon/lat ring of the tile
func (tile Tile) Polygon() []vec.Vec2 {
	return tile.WGS84Extent.Polygon()
}

// Visible returns only the tiles that are on screen
func (r TileResult) Visible() []Tile {
	var visible []Tile
	for _, tile := range r.Tiles {
		if tile.IsVisible {
			visible = append(visible, tile)
		}
	}
	return visible
}

// Index maps the tile IDs to the tiles, in the order of the result
func (r TileResult) Index() *orderedmap.OrderedMap[string, Tile] {
	index := orderedmap.New[string, Tile](len(r.Tiles))
	for _, tile := range r.Tiles {
		index.Set(tile.ID, tile)
	}
	return index
}

// GeoJSON returns a feature per tile, with the lon/lat polygon of the tile as geometry
// and its ID as "id" and "name" properties
func GeoJSON(r TileResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, tile := range r.Tiles {
		polygon := tile.Polygon()
		ring := make(orb.Ring, len(polygon))
		for i, p := range polygon {
			ring[i] = orb.Point(p)
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["id"] = tile.ID
		feature.Properties["name"] = tile.ID
		fc.Append(feature)
	}
	return fc
}
