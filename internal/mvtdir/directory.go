package mvtdir

import (
	"fmt"
	"sort"

	"github.com/pspoerri/rastermvt/internal/mvt"
)

// defaultSampleTileCount is the default for
// DirectoryOptions.TileCountToEstablishFeatureDefn: only this many tiles
// (in iteration order) are scanned to build the union schema/geometry
// kind when no metadata.json override is present — recovered from
// original_source/'s `tile_count_to_establish_feature_defn` (spec.md's
// SUPPLEMENTED FEATURES), which samples rather than scanning an entire,
// possibly enormous, tile tree.
const defaultSampleTileCount = 32

// DirectoryOptions configures open_directory (spec §6).
type DirectoryOptions struct {
	// TileExtension is carried in the options but not read by the
	// directory layer: TileStore.ReadTile takes no extension, so each
	// store resolves tile file names itself.
	TileExtension string
	// Metadata, if set, is parsed metadata.json content overriding
	// scan-derived schema and geometry kind per layer.
	Metadata *Metadata
	// TileCountToEstablishFeatureDefn caps how many tiles are sampled to
	// build the union schema when Metadata doesn't already supply one
	// for a layer; 0 uses defaultSampleTileCount.
	TileCountToEstablishFeatureDefn int
	// JSONField, if non-empty, folds every yielded feature's attributes
	// into a single attribute of this name holding a JSON-encoded object.
	// Each layer's Schema still lists the per-key fields found by
	// discovery; it does not list JSONField.
	JSONField string
	// LayerFilter, if non-empty, restricts advertised layers to this
	// allow-list of names.
	LayerFilter []string
	// Clip requests geometry clipping to each tile's envelope (spec
	// §4.9), applied the same way OpenTile would.
	Clip bool
}

// DirectoryDataset is a Z-level tile tree opened through a TileStore
// (spec §3 "DirectoryLayer", §4.10 "open_directory").
type DirectoryDataset struct {
	store TileStore
	z     int
	opts  DirectoryOptions

	tileAddrs  [][2]int
	layers     map[string]*DirectoryLayer
	layerNames []string
}

// OpenDirectory enumerates the tile tree at zoom z under store, samples
// up to opts.TileCountToEstablishFeatureDefn tiles (or all of them, if
// fewer) to discover the union of sub-layers, their schemas, and their
// geometry kinds, and returns a dataset ready for per-layer iteration.
func OpenDirectory(store TileStore, z int, opts DirectoryOptions) (*DirectoryDataset, error) {
	addrs, err := listTileAddrs(store, z)
	if err != nil {
		return nil, fmt.Errorf("mvtdir: open_directory: enumerating tiles at z=%d: %w", z, err)
	}

	d := &DirectoryDataset{store: store, z: z, opts: opts, tileAddrs: addrs}

	sampleCount := opts.TileCountToEstablishFeatureDefn
	if sampleCount <= 0 {
		sampleCount = defaultSampleTileCount
	}
	if sampleCount > len(addrs) {
		sampleCount = len(addrs)
	}

	discovered := map[string]*DirectoryLayer{}
	var order []string
	for i := 0; i < sampleCount; i++ {
		xy := addrs[i]
		td, err := d.openTile(xy[0], xy[1])
		if err != nil || td == nil {
			continue
		}
		for _, lyr := range td.Layers() {
			dl, ok := discovered[lyr.Name]
			if !ok {
				dl = newDirectoryLayer(d, lyr.Name)
				dl.Schema = mvt.NewSchema()
				discovered[lyr.Name] = dl
				order = append(order, lyr.Name)
			}
			mergeLayerDiscovery(dl, lyr)
		}
	}

	d.applyMetadataOverrides(discovered)
	d.layers, d.layerNames = applyLayerFilter(discovered, order, opts.LayerFilter)
	return d, nil
}

// mergeLayerDiscovery widens dl's running union schema/geometry kind
// with one tile's scan of the same-named layer (spec §4.10 "union
// schema ... widened using the rules of §4.7").
func mergeLayerDiscovery(dl *DirectoryLayer, lyr *mvt.Layer) {
	switch {
	case dl.GeomKind == mvt.GeomKindUnknown:
		dl.GeomKind = lyr.GeomKind
	case isMultiOf(lyr.GeomKind, dl.GeomKind):
		dl.GeomKind = lyr.GeomKind
	}
	for _, name := range lyr.Schema.Fields {
		t, _ := lyr.Schema.Type(name)
		dl.Schema.Widen(name, t)
	}
}

// isMultiOf reports whether multi is the Multi- promotion of single.
func isMultiOf(multi, single mvt.GeometryKind) bool {
	switch single {
	case mvt.GeomKindPoint:
		return multi == mvt.GeomKindMultiPoint
	case mvt.GeomKindLineString:
		return multi == mvt.GeomKindMultiLineString
	case mvt.GeomKindPolygon:
		return multi == mvt.GeomKindMultiPolygon
	default:
		return false
	}
}

// applyMetadataOverrides replaces scan-derived schema/geometry kind with
// metadata.json's, for any layer metadata.json actually names (spec
// §4.10).
func (d *DirectoryDataset) applyMetadataOverrides(layers map[string]*DirectoryLayer) {
	if d.opts.Metadata == nil {
		return
	}
	for name, dl := range layers {
		if fields := d.opts.Metadata.fieldsFor(name); fields != nil {
			s := mvt.NewSchema()
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				s.Widen(k, schemaFromMetadataField(fields[k]))
			}
			dl.Schema = s
		}
		if hint := d.opts.Metadata.geometryHintFor(name); hint != "" {
			dl.GeomKind = geometryKindFromHint(hint)
		}
	}
}

func applyLayerFilter(layers map[string]*DirectoryLayer, order, allow []string) (map[string]*DirectoryLayer, []string) {
	if len(allow) == 0 {
		return layers, order
	}
	allowed := map[string]bool{}
	for _, n := range allow {
		allowed[n] = true
	}
	out := map[string]*DirectoryLayer{}
	var outOrder []string
	for _, n := range order {
		if allowed[n] {
			out[n] = layers[n]
			outOrder = append(outOrder, n)
		}
	}
	return out, outOrder
}

// Layer returns the named directory layer, or nil if it was never
// discovered (or was filtered out by LayerFilter).
func (d *DirectoryDataset) Layer(name string) *DirectoryLayer { return d.layers[name] }

// LayerNames returns every advertised layer name, in first-discovered
// order.
func (d *DirectoryDataset) LayerNames() []string { return d.layerNames }

// openTile reads and parses the tile at (d.z, x, y), or (nil, nil) if
// the store has none there.
func (d *DirectoryDataset) openTile(x, y int) (*mvt.TileDataset, error) {
	data, ok, err := d.store.ReadTile(d.z, x, y)
	if err != nil {
		return nil, fmt.Errorf("mvtdir: reading tile (%d,%d,%d): %w", d.z, x, y, err)
	}
	if !ok {
		return nil, nil
	}
	addr := &mvt.TileAddress{Z: d.z, X: x, Y: y}
	td, err := mvt.OpenTile(data, addr, mvt.OpenOptions{Clip: d.opts.Clip})
	if err != nil {
		return nil, fmt.Errorf("mvtdir: parsing tile (%d,%d,%d): %w", d.z, x, y, err)
	}
	return td, nil
}
