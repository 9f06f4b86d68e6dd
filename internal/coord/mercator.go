// Package coord provides the WebMercator tile georeferencing used by the
// MVT reader to convert tile-local integer coordinates into projected
// coordinates, plus the WGS84/tile helpers used for directory spatial
// filtering.
package coord

import "math"

const (
	// EarthRadius is the spherical Web Mercator earth radius in meters.
	EarthRadius = 6378137.0
	// EarthCircumference is the equatorial circumference in meters.
	EarthCircumference = 2.0 * math.Pi * EarthRadius
	// OriginShift is half the earth's circumference, the coordinate of the
	// antimeridian in Web Mercator meters.
	OriginShift = EarthCircumference / 2.0
	// DefaultTileSize is the standard web map tile dimension in pixels.
	DefaultTileSize = 256
)

// TileTransform converts MVT tile-local integer coordinates (in [0, extent])
// for a tile at (Z, X, Y) into Web Mercator meters, per spec §4.8:
//
//	D = 2·π·R / 2^Z
//	(TX, TY) = (−π·R + X·D, π·R − Y·D)
//	(x, y)   = (TX + nx·D/extent, TY − ny·D/extent)
type TileTransform struct {
	z, x, y int
	extent  uint32
	d       float64
	tx, ty  float64
	valid   bool
}

// NewTileTransform builds a georeferencing transform for tile (z, x, y) with
// the layer's extent. If valid is false (no tile address was supplied at
// open time), ToWorld falls back to the identity mapping (nx, extent−ny)
// described in spec §4.8.
func NewTileTransform(z, x, y int, extent uint32, valid bool) TileTransform {
	if extent == 0 {
		extent = 4096
	}
	t := TileTransform{z: z, x: x, y: y, extent: extent, valid: valid}
	if !valid {
		return t
	}
	n := math.Pow(2, float64(z))
	t.d = EarthCircumference / n
	t.tx = -OriginShift + float64(x)*t.d
	t.ty = OriginShift - float64(y)*t.d
	return t
}

// WithExtent returns a copy of t using a different extent divisor,
// needed because the MVT layer's actual extent (spec §4.7, default 4096)
// is only known once that layer's header has been scanned, after the
// tile-level transform was already constructed at open_tile time.
func (t TileTransform) WithExtent(extent uint32) TileTransform {
	if extent == 0 {
		extent = 4096
	}
	t.extent = extent
	return t
}

// Z, X, Y return the tile address the transform was built with (the
// zero value if none was supplied).
// HasTileAddress reports whether the transform was built with a real
// (Z,X,Y), as opposed to the identity fallback.
func (t TileTransform) HasTileAddress() bool { return t.valid }

func (t TileTransform) Z() int { return t.z }
func (t TileTransform) X() int { return t.x }
func (t TileTransform) Y() int { return t.y }

// ToWorld maps a local tile coordinate (nx, ny) to the output coordinate
// space: Web Mercator meters when a tile address was provided, or the
// unprojected identity (nx, extent−ny) otherwise.
func (t TileTransform) ToWorld(nx, ny int32) (wx, wy float64) {
	if !t.valid {
		return float64(nx), float64(t.extent) - float64(ny)
	}
	wx = t.tx + float64(nx)*t.d/float64(t.extent)
	wy = t.ty - float64(ny)*t.d/float64(t.extent)
	return wx, wy
}

// TileBoundsMeters returns the Web Mercator meters envelope of tile (z,x,y),
// used by the geometry clipper (spec §4.9) to build the tile polygon.
func TileBoundsMeters(z, x, y int) (minX, minY, maxX, maxY float64) {
	n := math.Pow(2, float64(z))
	d := EarthCircumference / n
	minX = -OriginShift + float64(x)*d
	maxX = minX + d
	maxY = OriginShift - float64(y)*d
	minY = maxY - d
	return
}

// LonLatToTile converts WGS84 lon/lat to tile coordinates at the given zoom,
// used by DirectoryLayer.SetSpatialFilter to turn a caller bounding box into
// an (Xmin..Xmax, Ymin..Ymax) window.
func LonLatToTile(lon, lat float64, zoom int) (x, y int) {
	n := math.Pow(2, float64(zoom))
	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	latRad := lat * math.Pi / 180.0
	y = int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))

	maxTile := int(n) - 1
	if x < 0 {
		x = 0
	}
	if x > maxTile {
		x = maxTile
	}
	if y < 0 {
		y = 0
	}
	if y > maxTile {
		y = maxTile
	}
	return
}

// TileBounds returns the WGS84 bounding box of a tile at the given zoom level.
func TileBounds(z, x, y int) (minLon, minLat, maxLon, maxLat float64) {
	n := math.Pow(2, float64(z))
	minLon = float64(x)/n*360.0 - 180.0
	maxLon = float64(x+1)/n*360.0 - 180.0
	minLat = math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y+1)/n))) * 180.0 / math.Pi
	maxLat = math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y)/n))) * 180.0 / math.Pi
	return
}

// TilesInRange returns all [z,x,y] tile coordinates at zoom intersecting the
// given WGS84 bounds, clamped to the valid [0, 2^z) grid.
func TilesInRange(zoom int, minLon, minLat, maxLon, maxLat float64) [][3]int {
	minTX, minTY := LonLatToTile(minLon, maxLat, zoom)
	maxTX, maxTY := LonLatToTile(maxLon, minLat, zoom)

	var tiles [][3]int
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			tiles = append(tiles, [3]int{zoom, tx, ty})
		}
	}
	return tiles
}
