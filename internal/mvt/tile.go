package mvt

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pspoerri/rastermvt/internal/coord"
)

// maxTileBytes is the hard per-tile byte budget (spec §5): oversized
// input is rejected before any allocation beyond the initial buffer.
const maxTileBytes = 10 * 1024 * 1024

// TileAddress is the optional (Z,X,Y) a tile is opened at; without one,
// geometry coordinates stay in the identity (local) space (spec §4.8).
type TileAddress struct {
	Z, X, Y int
}

// OpenOptions configures open_tile (spec §6).
type OpenOptions struct {
	Clip bool
	// SchemaFor, if set, supplies an externally-derived schema for a
	// named layer (e.g. from metadata.json's vector_layers, spec
	// §4.10), overriding scan-derived field discovery for that layer.
	SchemaFor func(layerName string) *Schema
}

// TileDataset is the parsed form of one MVT tile: zero or more layers,
// each independently scanned (spec §3 "TileBuffer").
type TileDataset struct {
	layers []*Layer
}

// OpenTile parses an MVT tile buffer (spec §6 open_tile), transparently
// unwrapping a gzip frame if present.
func OpenTile(data []byte, addr *TileAddress, opts OpenOptions) (*TileDataset, error) {
	if len(data) > maxTileBytes {
		return nil, fmt.Errorf("mvt: tile exceeds %d byte budget", maxTileBytes)
	}
	if isGzip(data) {
		unwrapped, err := gunzipTile(data)
		if err != nil {
			return nil, fmt.Errorf("mvt: unwrapping gzip tile: %w", err)
		}
		data = unwrapped
		if len(data) > maxTileBytes {
			return nil, fmt.Errorf("mvt: decompressed tile exceeds %d byte budget", maxTileBytes)
		}
	}

	var transform coord.TileTransform
	if addr != nil {
		transform = coord.NewTileTransform(addr.Z, addr.X, addr.Y, 4096, true)
	} else {
		transform = coord.NewTileTransform(0, 0, 0, 4096, false)
	}

	td := &TileDataset{}
	r := newFieldReader(data)
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, fmt.Errorf("mvt: malformed tile framing: %w", err)
		}
		if field != 3 {
			// Tile-level field 3 is the only one this package cares
			// about; anything else (unknown extension fields) is
			// skipped (spec §1 lists only layers as in-scope).
			if err := r.skip(wireType); err != nil {
				return nil, fmt.Errorf("mvt: malformed tile framing: %w", err)
			}
			continue
		}
		layerBuf, err := r.readBytes()
		if err != nil {
			return nil, fmt.Errorf("mvt: malformed tile framing: %w", err)
		}
		layer, err := scanLayer(layerBuf, transform, opts.Clip, opts.SchemaFor)
		if err != nil {
			// A malformed layer is rejected without aborting the tile,
			// as long as the top-level framing stays well-formed
			// (spec §7).
			continue
		}
		td.layers = append(td.layers, layer)
	}
	return td, nil
}

// Layers returns every layer the tile contained, in wire order.
func (t *TileDataset) Layers() []*Layer { return t.layers }

// Layer returns the named layer, or nil if absent.
func (t *TileDataset) Layer(name string) *Layer {
	for _, l := range t.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B
}

func gunzipTile(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxTileBytes+1))
}
