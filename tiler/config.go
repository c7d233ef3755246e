package tiler

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/viewtiles/tms20"
	"github.com/pdok/viewtiles/transform"
)

// Config of a Tiler. Start from DefaultConfig, the zero value doesn't validate.
type Config struct {
	// Size in pixels of a tile on screen, at the zoom it's meant for
	TileSize uint `default:"256" validate:"required,min=1" json:"tileSize"`
	// Lowest tile zoom level to return
	MinZoom int `default:"0" validate:"min=0,max=24,ltefield=MaxZoom" json:"minZoom"`
	// Highest tile zoom level to return
	MaxZoom int `default:"24" validate:"min=0,max=24" json:"maxZoom"`
	// Extra tiles around the screen, in tiles
	Margin uint `default:"0" json:"margin"`
	// Leave out the tiles around lon/lat 0,0 (from zoom 7)
	SkipNullIsland bool `default:"false" json:"skipNullIsland"`
}

// DefaultConfig returns tile size 256, zoom range 0-24, no margin and keeps null island
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Errorf(`could not set tiler config defaults: %w`, err))
	}
	return cfg
}

func (cfg Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf(`invalid tiler config: %w`, err)
	}
	return nil
}

// ConfigFromTileMatrixSet derives the tile size and zoom range from a web mercator quad tree
// tile matrix set, like the OGC WebMercatorQuad.
// The matrices must be square powers of 2 (matrix width 2^id) with square tiles of the same size.
func ConfigFromTileMatrixSet(tms tms20.TileMatrixSet) (Config, error) {
	cfg := DefaultConfig()
	srid, err := tms.SRID()
	if err != nil {
		return cfg, err
	}
	if srid != 3857 {
		return cfg, fmt.Errorf(`tile matrix set %v is in EPSG:%v, only EPSG:3857 is supported`, tms.ID, srid)
	}

	minZoom, maxZoom := transform.MaxZ+1, -1
	var tileSize uint
	for id, tm := range tms.TileMatrices {
		if id < transform.MinZ || id > transform.MaxZ {
			continue
		}
		size, ok := tms.Size(uint(id))
		if !ok || size.X != 1<<id || size.Y != 1<<id {
			return cfg, fmt.Errorf(`tile matrix %v of %v is not part of a quad tree`, tm.ID, tms.ID)
		}
		if tm.TileWidth != tm.TileHeight {
			return cfg, fmt.Errorf(`tile matrix %v of %v has tiles that aren't square`, tm.ID, tms.ID)
		}
		if tileSize == 0 {
			tileSize = tm.TileWidth
		} else if tileSize != tm.TileWidth {
			return cfg, fmt.Errorf(`tile matrices of %v have different tile sizes`, tms.ID)
		}
		minZoom = min(minZoom, id)
		maxZoom = max(maxZoom, id)
	}
	if maxZoom < 0 {
		return cfg, fmt.Errorf(`tile matrix set %v has no tile matrices between %v and %v`, tms.ID, transform.MinZ, transform.MaxZ)
	}

	cfg.TileSize = tileSize
	cfg.MinZoom = minZoom
	cfg.MaxZoom = maxZoom
	return cfg, cfg.Validate()
}
