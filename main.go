package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/viewtiles/geomhelp"
	"github.com/pdok/viewtiles/mapslicehelp"
	"github.com/pdok/viewtiles/mathhelp"
	"github.com/pdok/viewtiles/tiler"
	"github.com/pdok/viewtiles/tms20"
	"github.com/pdok/viewtiles/transform"
	"github.com/pdok/viewtiles/vec"
	"github.com/pdok/viewtiles/viewport"
)

const WIDTH string = `width`
const HEIGHT string = `height`
const X string = `x`
const Y string = `y`
const ZOOM string = `zoom`
const ROTATION string = `rotation`
const TILESIZE string = `tilesize`
const MARGIN string = `margin`
const SKIPNULLISLAND string = `skipnullisland`
const TILEMATRIXSET string = `tilematrixset`
const FORMAT string = `format`

const (
	formatGeoJSON = "geojson"
	formatWKT     = "wkt"
	formatIDs     = "ids"
)

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "viewtiles"
	app.Usage = "Prints the web mercator tiles covering a (rotated) map viewport"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.Float64Flag{
			Name:     WIDTH,
			Usage:    "Width of the screen in pixels",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(WIDTH)},
		},
		&cli.Float64Flag{
			Name:     HEIGHT,
			Usage:    "Height of the screen in pixels",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(HEIGHT)},
		},
		&cli.Float64Flag{
			Name:    X,
			Usage:   "Screen x of lon/lat 0,0 in pixels. Defaults to the middle of the screen",
			EnvVars: []string{strcase.ToScreamingSnake(X)},
		},
		&cli.Float64Flag{
			Name:    Y,
			Usage:   "Screen y of lon/lat 0,0 in pixels. Defaults to the middle of the screen",
			EnvVars: []string{strcase.ToScreamingSnake(Y)},
		},
		&cli.Float64Flag{
			Name:    ZOOM,
			Aliases: []string{"z"},
			Usage:   "Zoom level (fractional), 0-24",
			Value:   0,
			EnvVars: []string{strcase.ToScreamingSnake(ZOOM)},
		},
		&cli.Float64Flag{
			Name:    ROTATION,
			Aliases: []string{"r"},
			Usage:   "Rotation of the map in degrees, clockwise",
			Value:   0,
			EnvVars: []string{strcase.ToScreamingSnake(ROTATION)},
		},
		&cli.UintFlag{
			Name:    TILESIZE,
			Usage:   "Size of a tile on screen in pixels. Ignored when a tile matrix set is given",
			Value:   viewport.TileSize,
			EnvVars: []string{strcase.ToScreamingSnake(TILESIZE)},
		},
		&cli.UintFlag{
			Name:    MARGIN,
			Aliases: []string{"m"},
			Usage:   "Number of extra tiles around the screen",
			Value:   0,
			EnvVars: []string{strcase.ToScreamingSnake(MARGIN)},
		},
		&cli.BoolFlag{
			Name:    SKIPNULLISLAND,
			Usage:   "Leave out the tiles around lon/lat 0,0 from zoom 7 on",
			EnvVars: []string{strcase.ToScreamingSnake(SKIPNULLISLAND)},
		},
		&cli.StringFlag{
			Name:    TILEMATRIXSET,
			Aliases: []string{"tms"},
			Usage:   `ID of a (built-in) tile matrix set or path to a tile matrix set JSON file. E.g.: WebMercatorQuad`,
			EnvVars: []string{strcase.ToScreamingSnake(TILEMATRIXSET)},
		},
		&cli.StringFlag{
			Name:    FORMAT,
			Aliases: []string{"f"},
			Usage:   `Output format: geojson, wkt or ids`,
			Value:   formatGeoJSON,
			EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
		},
	}

	app.Action = func(c *cli.Context) error {
		cfg, err := tilerConfig(c.String(TILEMATRIXSET), c.Uint(TILESIZE))
		if err != nil {
			return err
		}
		cfg.Margin = c.Uint(MARGIN)
		cfg.SkipNullIsland = c.Bool(SKIPNULLISLAND)
		t, err := tiler.New(cfg)
		if err != nil {
			return err
		}

		dimensions := vec.Vec2{c.Float64(WIDTH), c.Float64(HEIGHT)}
		opts := []transform.Option{
			transform.WithX(dimensions[0] / 2),
			transform.WithY(dimensions[1] / 2),
			transform.WithZ(c.Float64(ZOOM)),
			transform.WithR(c.Float64(ROTATION) * mathhelp.Deg2Rad),
		}
		if c.IsSet(X) {
			opts = append(opts, transform.WithX(c.Float64(X)))
		}
		if c.IsSet(Y) {
			opts = append(opts, transform.WithY(c.Float64(Y)))
		}
		v := viewport.New(transform.New(opts...), dimensions)

		result := t.GetTiles(v)
		log.Printf("%d tiles (%d visible) for viewport %v of %vx%v pixels",
			len(result.Tiles), len(result.Visible()), v.Transform().Props(), dimensions[0], dimensions[1])
		return writeTiles(os.Stdout, c.String(FORMAT), result)
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// tilerConfig derives the config from a tile matrix set when given, else from the tile size
func tilerConfig(tileMatrixSet string, tileSize uint) (tiler.Config, error) {
	if tileMatrixSet == "" {
		cfg := tiler.DefaultConfig()
		cfg.TileSize = tileSize
		return cfg, nil
	}
	var tms tms20.TileMatrixSet
	var err error
	if strings.HasSuffix(tileMatrixSet, ".json") {
		tms, err = tms20.LoadJSONTileMatrixSet(tileMatrixSet)
	} else {
		tms, err = tms20.LoadEmbeddedTileMatrixSet(tileMatrixSet)
	}
	if err != nil {
		return tiler.Config{}, fmt.Errorf("could not load tile matrix set %v: %w", tileMatrixSet, err)
	}
	return tiler.ConfigFromTileMatrixSet(tms)
}

func writeTiles(w io.Writer, format string, result tiler.TileResult) error {
	switch format {
	case formatGeoJSON:
		b, err := json.Marshal(tiler.GeoJSON(result))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatWKT:
		for _, tile := range result.Tiles {
			if _, err := fmt.Fprintf(w, "%s\t%v\t%s\n", tile.ID, tile.IsVisible, geomhelp.WktMustEncode(tile.Polygon(), 0)); err != nil {
				return err
			}
		}
		return nil
	case formatIDs:
		for _, id := range mapslicehelp.OrderedMapKeys(result.Index()) {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q, use %v, %v or %v", format, formatGeoJSON, formatWKT, formatIDs)
	}
}
