package mvtdir

import (
	"fmt"

	"github.com/pspoerri/rastermvt/internal/coord"
	"github.com/pspoerri/rastermvt/internal/mvt"
)

// SpatialFilter is a WGS84 lon/lat bounding box used to restrict a
// DirectoryLayer's iteration to tiles intersecting it (spec §4.10).
type SpatialFilter struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// DirectoryLayer is one named sub-layer's view across every tile in a
// DirectoryDataset (spec §3 "DirectoryLayer"): the union of the schema
// and geometry kind discovered (or metadata-supplied) across tiles,
// plus a lazy cursor over (tile, feature-within-tile) pairs.
type DirectoryLayer struct {
	ds   *DirectoryDataset
	name string

	Schema   *mvt.Schema
	GeomKind mvt.GeometryKind

	filter *SpatialFilter
	tiles  [][2]int // this layer's candidate (x,y) addresses, in Hilbert-curve order

	tileIdx    int
	curTile    *mvt.TileDataset
	curTileXY  [2]int
	featureIdx int
}

func newDirectoryLayer(ds *DirectoryDataset, name string) *DirectoryLayer {
	l := &DirectoryLayer{ds: ds, name: name, tiles: ds.tileAddrs}
	return l
}

// SetSpatialFilter restricts subsequent iteration to tiles whose address
// falls in the tile-grid window covering f, and resets the cursor.
func (l *DirectoryLayer) SetSpatialFilter(f SpatialFilter) {
	l.filter = &f
	minX, minY := coord.LonLatToTile(f.MinLon, f.MaxLat, l.ds.z)
	maxX, maxY := coord.LonLatToTile(f.MaxLon, f.MinLat, l.ds.z)
	var tiles [][2]int
	for _, xy := range l.ds.tileAddrs {
		if xy[0] >= minX && xy[0] <= maxX && xy[1] >= minY && xy[1] <= maxY {
			tiles = append(tiles, xy)
		}
	}
	l.tiles = tiles
	l.Reset()
}

// Reset restarts iteration from the first candidate tile (spec §9
// "Iterator semantics").
func (l *DirectoryLayer) Reset() {
	l.tileIdx = 0
	l.featureIdx = 0
	l.curTile = nil
}

// NextFeature yields the directory layer's features across every
// candidate tile, in the Hilbert-curve tile order listTileAddrs produces
// and wire order within each tile; (nil, nil, false) once exhausted.
func (l *DirectoryLayer) NextFeature() (*mvt.Feature, error, bool) {
	for {
		if l.curTile == nil {
			if l.tileIdx >= len(l.tiles) {
				return nil, nil, false
			}
			xy := l.tiles[l.tileIdx]
			l.tileIdx++
			td, err := l.ds.openTile(xy[0], xy[1])
			if err != nil {
				return nil, err, false
			}
			if td == nil || td.Layer(l.name) == nil {
				continue
			}
			l.curTile = td
			l.curTileXY = xy
			l.featureIdx = 0
		}

		lyr := l.curTile.Layer(l.name)
		if l.featureIdx >= lyr.FeatureCount() {
			l.curTile = nil
			continue
		}
		idx := l.featureIdx
		l.featureIdx++
		f, err := lyr.Feature(idx)
		if err != nil {
			// Malformed feature: skip, not fatal (spec §7).
			continue
		}
		fid := synthesizeFID(l.ds.z, l.curTileXY[0], l.curTileXY[1], idx)
		tf, err := translateFeature(f, fid, l.ds.opts.JSONField)
		if err != nil {
			return nil, err, false
		}
		return tf, nil, true
	}
}

// GetFeature decomposes fid into (X, Y, local index), opens that tile,
// and rebuilds the public feature (spec §4.10 get_by_id).
func (l *DirectoryLayer) GetFeature(fid uint64) (*mvt.Feature, error) {
	x, y, localIdx := decomposeFID(fid, l.ds.z)
	td, err := l.ds.openTile(x, y)
	if err != nil {
		return nil, err
	}
	if td == nil {
		return nil, fmt.Errorf("mvtdir: get_feature: no tile at (%d,%d,%d)", l.ds.z, x, y)
	}
	lyr := td.Layer(l.name)
	if lyr == nil {
		return nil, fmt.Errorf("mvtdir: get_feature: layer %q absent from tile (%d,%d,%d)", l.name, l.ds.z, x, y)
	}
	f, err := lyr.Feature(localIdx)
	if err != nil {
		return nil, err
	}
	return translateFeature(f, fid, l.ds.opts.JSONField)
}
