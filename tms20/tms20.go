// Package tms20 reads OGC Tile Matrix Set (v2.0) definitions, enough to check whether
// one describes a web mercator quad tree the tiler can follow.
// See https://www.ogc.org/standard/tms/
package tms20

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom/slippy"
	"github.com/perimeterx/marshmallow"
)

var (
	//go:embed tilematrixsets/*.json
	embeddedTileMatrixSetsJSONFS embed.FS
	embeddedTileMatrixSetsCache  = make(map[string]TileMatrixSet)
	embeddedTileMatrixSetsMu     sync.Mutex
)

// LoadJSONTileMatrixSet reads a tile matrix set from a JSON file
func LoadJSONTileMatrixSet(path string) (TileMatrixSet, error) {
	var tms TileMatrixSet
	tmsJSON, err := os.ReadFile(path)
	if err != nil {
		return tms, err
	}
	if err = json.Unmarshal(tmsJSON, &tms); err != nil {
		return tms, fmt.Errorf(`could not read tile matrix set %v: %w`, path, err)
	}
	return tms, nil
}

// LoadEmbeddedTileMatrixSet returns one of the tile matrix sets that ship with this package, by id
func LoadEmbeddedTileMatrixSet(id string) (TileMatrixSet, error) {
	embeddedTileMatrixSetsMu.Lock()
	defer embeddedTileMatrixSetsMu.Unlock()

	var tms TileMatrixSet
	if cached, ok := embeddedTileMatrixSetsCache[id]; ok {
		return cached, nil
	}
	tmsJSON, err := embeddedTileMatrixSetsJSONFS.ReadFile("tilematrixsets/" + id + ".json")
	if err != nil {
		return tms, err
	}
	if err = json.Unmarshal(tmsJSON, &tms); err != nil {
		return tms, err
	}
	embeddedTileMatrixSetsCache[id] = tms
	return tms, nil
}

// TileMatrixSet is a definition of a tile matrix set following the Tile Matrix Set standard.
// Only the parts needed to lay out a tile grid are kept.
type TileMatrixSet struct {
	// Tile matrix set identifier
	ID string `json:"id,omitempty"`
	// Title of this tile matrix set, normally used for display to a human
	Title string `json:"title,omitempty"`
	// Reference to an official source for this TileMatrixSet
	URI         string   `validate:"omitempty,uri" json:"uri,omitempty"`
	OrderedAxes []string `validate:"omitempty,len=2" json:"orderedAxes,omitempty"`
	// Coordinate Reference System (CRS)
	CRS CRS `validate:"required" json:"-"`
	// Tile matrices by (integer) id
	TileMatrices map[int]TileMatrix `validate:"required,min=1,dive" json:"-"`
}

func (tms *TileMatrixSet) MarshalJSON() ([]byte, error) {
	ids := make([]int, 0, len(tms.TileMatrices))
	for id := range tms.TileMatrices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	tileMatrices := make([]TileMatrix, len(ids))
	for i, id := range ids {
		tileMatrices[i] = tms.TileMatrices[id]
	}
	return json.Marshal(struct {
		TileMatrixSet                    // not a pointer, because it would cause recursion to this function
		SpecialCRS          CRS          `json:"crs"`
		SpecialTileMatrices []TileMatrix `json:"tileMatrices"`
	}{
		TileMatrixSet:       *tms,
		SpecialCRS:          tms.CRS,
		SpecialTileMatrices: tileMatrices,
	})
}

func (tms *TileMatrixSet) UnmarshalJSON(data []byte) error {
	err := defaults.Set(tms)
	if err != nil {
		return err
	}

	specials, err := marshmallow.Unmarshal(data, tms, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCrs, ok := specials["crs"]
	if !ok {
		return fmt.Errorf(`missing key "crs"`)
	}
	tms.CRS, err = unmarshalCRS(rawCrs)
	if err != nil {
		return err
	}

	rawTileMatrices, ok := specials["tileMatrices"]
	if !ok {
		return fmt.Errorf(`missing key "tileMatrices"`)
	}
	tms.TileMatrices, err = unmarshalTileMatrices(rawTileMatrices)
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(tms)
}

func unmarshalTileMatrices(rawTileMatrices interface{}) (map[int]TileMatrix, error) {
	rawTileMatricesList, ok := rawTileMatrices.([]interface{})
	if !ok {
		return nil, fmt.Errorf(`"tileMatrices" should be an array`)
	}
	tileMatrices := make(map[int]TileMatrix, len(rawTileMatricesList))
	for _, rawTileMatrix := range rawTileMatricesList {
		rawTileMatrixMap, ok := rawTileMatrix.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf(`"tileMatrices" should be objects`)
		}
		var tileMatrix TileMatrix
		if err := tileMatrix.unmarshalJSONFromMap(rawTileMatrixMap); err != nil {
			return nil, err
		}
		tileMatrixID, err := strconv.ParseInt(tileMatrix.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("only integer-like ids are supported for tile matrices: %w", err)
		}
		if _, exists := tileMatrices[int(tileMatrixID)]; exists {
			return nil, fmt.Errorf(`duplicate tile matrix id %v`, tileMatrix.ID)
		}
		tileMatrices[int(tileMatrixID)] = tileMatrix
	}
	return tileMatrices, nil
}

var (
	crsURIRegexURL = regexp.MustCompile("https?://.+/def/crs/(?P<authority>[^/]+)/[^/]+/(?P<code>[^/]+)$")
	crsURIRegexURN = regexp.MustCompile("^urn:ogc:def:crs:(?P<authority>[^:]+)::(?P<code>[^:]+)$")
)

// CRS is a coordinate reference system given by URI, either as a plain string or as {"uri": ...}
type CRS struct {
	Description   string
	URI           string `validate:"required"`
	AuthorityName string `validate:"required"`
	AuthorityCode string `validate:"required"`
	// Whether it should be marshalled as just a string
	asString bool
}

func (crs CRS) MarshalJSON() ([]byte, error) {
	if crs.asString {
		return json.Marshal(crs.URI)
	}
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		URI         string `json:"uri"`
	}{
		Description: crs.Description,
		URI:         crs.URI,
	})
}

func unmarshalCRS(rawCrs interface{}) (CRS, error) {
	var crs CRS
	var rawCrsMap map[string]interface{}
	rawCrsString, asString := rawCrs.(string)
	if asString {
		rawCrsMap = map[string]interface{}{"uri": rawCrsString}
	} else {
		var ok bool
		rawCrsMap, ok = rawCrs.(map[string]interface{})
		if !ok {
			return crs, fmt.Errorf(`wrong type key "crs": %T`, rawCrs)
		}
	}
	crs.asString = asString

	if rawDescription, ok := rawCrsMap["description"]; ok {
		if crs.Description, ok = rawDescription.(string); !ok {
			return crs, fmt.Errorf(`description property is not a string but a %T`, rawDescription)
		}
	}
	rawURI, ok := rawCrsMap["uri"]
	if !ok {
		// wkt and referenceSystem definitions don't tell the tiler anything it can use
		return crs, fmt.Errorf(`only crs by uri is supported`)
	}
	if crs.URI, ok = rawURI.(string); !ok {
		return crs, fmt.Errorf(`uri property is not a string but a %T`, rawURI)
	}

	uriParts := crsURIRegexURL.FindStringSubmatch(crs.URI)
	if uriParts == nil {
		uriParts = crsURIRegexURN.FindStringSubmatch(crs.URI)
	}
	if uriParts == nil {
		return crs, fmt.Errorf(`could not parse crs uri "%v"`, crs.URI)
	}
	crs.AuthorityName = uriParts[1]
	crs.AuthorityCode = uriParts[2]

	validate := validator.New(validator.WithRequiredStructEnabled())
	return crs, validate.Struct(crs)
}

type CornerOfOrigin string

const (
	TopLeft    CornerOfOrigin = "topLeft"
	BottomLeft CornerOfOrigin = "bottomLeft"
)

func (c *CornerOfOrigin) UnmarshalJSONFromMap(data interface{}) error {
	dataString, ok := data.(string)
	if !ok {
		return fmt.Errorf(`CornerOfOrigin data is not a string but a %T`, data)
	}
	switch dataString {
	case "", string(TopLeft):
		*c = TopLeft
	case string(BottomLeft):
		*c = BottomLeft
	default:
		return fmt.Errorf(`unknown CornerOfOrigin: %v`, data)
	}
	return nil
}

// A tile matrix, usually corresponding to a particular zoom level of a TileMatrixSet.
type TileMatrix struct {
	// Identifier selecting one of the scales defined in the TileMatrixSet
	ID string `validate:"required" json:"id"`
	// Scale denominator of this tile matrix
	ScaleDenominator float64 `validate:"required,gt=0" json:"scaleDenominator"`
	// Cell size of this tile matrix
	CellSize float64 `validate:"required,gt=0" json:"cellSize"`
	// The corner of the tile matrix used as the origin for numbering tile rows and columns
	CornerOfOrigin CornerOfOrigin `default:"topLeft" validate:"oneof=topLeft bottomLeft" json:"cornerOfOrigin"`
	// Position in CRS coordinates of the corner of origin
	PointOfOrigin [2]float64 `json:"pointOfOrigin"`
	// Width of each tile of this tile matrix in pixels
	TileWidth uint `validate:"required,min=1" json:"tileWidth"`
	// Height of each tile of this tile matrix in pixels
	TileHeight uint `validate:"required,min=1" json:"tileHeight"`
	// Width of the matrix (number of tiles in width)
	MatrixWidth uint `validate:"required,min=1" json:"matrixWidth"`
	// Height of the matrix (number of tiles in height)
	MatrixHeight uint `validate:"required,min=1" json:"matrixHeight"`
}

func (tm *TileMatrix) unmarshalJSONFromMap(data map[string]interface{}) error {
	if err := defaults.Set(tm); err != nil {
		return err
	}
	if _, err := marshmallow.UnmarshalFromJSONMap(data, tm); err != nil {
		return err
	}
	if _, ok := data["variableMatrixWidths"]; ok {
		return fmt.Errorf(`tile matrix %v: variable matrix widths are not supported`, tm.ID)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(tm)
}

// SRID is the EPSG code of the CRS
func (tms *TileMatrixSet) SRID() (uint, error) {
	if tms.CRS.AuthorityName != "EPSG" {
		return 0, fmt.Errorf(`crs %v of tile matrix set %v is not an EPSG crs`, tms.CRS.URI, tms.ID)
	}
	code, err := strconv.ParseUint(tms.CRS.AuthorityCode, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(`could not parse uri authority code: %w`, err)
	}
	return uint(code), nil
}

// Size returns the matrix width and height at a zoom level as a tile
func (tms *TileMatrixSet) Size(zoom uint) (*slippy.Tile, bool) {
	tm, ok := tms.TileMatrices[int(zoom)]
	if !ok {
		return nil, false
	}
	return slippy.NewTile(zoom, tm.MatrixWidth, tm.MatrixHeight), true
}
