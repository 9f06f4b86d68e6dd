package mvt

import (
	"fmt"
	"unicode/utf8"

	"github.com/pspoerri/rastermvt/internal/coord"
)

// GeometryKind is the layer-advertised geometry type, promoted to its
// Multi- variant when any feature decoded to more than one part (spec
// §4.7).
type GeometryKind int

const (
	GeomKindUnknown GeometryKind = iota
	GeomKindPoint
	GeomKindLineString
	GeomKindPolygon
	GeomKindMultiPoint
	GeomKindMultiLineString
	GeomKindMultiPolygon
)

func promoteKind(k GeometryKind) GeometryKind {
	switch k {
	case GeomKindPoint:
		return GeomKindMultiPoint
	case GeomKindLineString:
		return GeomKindMultiLineString
	case GeomKindPolygon:
		return GeomKindMultiPolygon
	default:
		return k
	}
}

func baseKind(t FeatureGeomType) GeometryKind {
	switch t {
	case GeomPoint:
		return GeomKindPoint
	case GeomLineString:
		return GeomKindLineString
	case GeomPolygon:
		return GeomKindPolygon
	default:
		return GeomKindUnknown
	}
}

// Layer is a fully scanned MVT layer (spec §3 LayerHeader + schema):
// keys/values/extent/version from the first pass, feature offsets and
// discovered schema/geometry kind from the second.
type Layer struct {
	Name    string
	Extent  uint32
	Version uint32

	keys   []string
	values []Value

	featureBufs [][]byte

	Schema   *Schema
	GeomKind GeometryKind

	transform coord.TileTransform
	clip      bool

	cursor int
}

// scanLayer performs the two passes described in spec §4.7 over one
// layer submessage's bytes.
func scanLayer(buf []byte, transform coord.TileTransform, clip bool, schemaFor func(layerName string) *Schema) (*Layer, error) {
	l := &Layer{Extent: 4096, Version: 1, transform: transform, clip: clip}

	r := newFieldReader(buf)
	haveExtent, haveVersion := false, false
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			name, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			if len(name) == 0 || !utf8.Valid(name) {
				return nil, fmt.Errorf("mvt: layer name must be non-empty valid UTF-8")
			}
			l.Name = string(name)
		case 2:
			fb, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			l.featureBufs = append(l.featureBufs, fb)
		case 3:
			k, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			l.keys = append(l.keys, string(k))
		case 4:
			vb, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(vb)
			if err != nil {
				return nil, err
			}
			l.values = append(l.values, v)
		case 5:
			n, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			l.Extent = uint32(n)
			haveExtent = true
		case 15:
			n, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			l.Version = uint32(n)
			haveVersion = true
		default:
			if err := r.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	if l.Name == "" {
		return nil, fmt.Errorf("mvt: layer missing name field")
	}
	if !haveExtent || l.Extent < 1 {
		l.Extent = 4096
	}
	if haveVersion && l.Version != 1 && l.Version != 2 {
		return nil, fmt.Errorf("mvt: layer %q has unsupported version %d", l.Name, l.Version)
	}

	l.transform = l.transform.WithExtent(l.Extent)

	var externalSchema *Schema
	if schemaFor != nil {
		externalSchema = schemaFor(l.Name)
	}
	if err := l.discoverSchema(externalSchema); err != nil {
		return nil, err
	}
	return l, nil
}

// discoverSchema runs the second pass (spec §4.7): for each feature,
// widen the field schema (unless an external one overrides it) and
// detect multi-part geometry promotion.
func (l *Layer) discoverSchema(externalSchema *Schema) error {
	if externalSchema != nil {
		l.Schema = externalSchema
	} else {
		l.Schema = newSchema()
	}

	var sawKind GeometryKind
	anyMulti := false

	for _, fb := range l.featureBufs {
		raw, err := decodeRawFeature(fb)
		if err != nil {
			// A malformed feature is rejected, not fatal to the layer
			// (spec §7).
			continue
		}
		if sawKind == GeomKindUnknown {
			sawKind = baseKind(raw.geomType)
		}
		if externalSchema == nil {
			for i := 0; i+1 < len(raw.tags); i += 2 {
				ki, vi := int(raw.tags[i]), int(raw.tags[i+1])
				if ki < 0 || ki >= len(l.keys) || vi < 0 || vi >= len(l.values) {
					continue
				}
				l.Schema.widen(l.keys[ki], valueFieldType(l.values[vi]))
			}
		}
		if geometryHasMultipleParts(raw.geomCmds, raw.geomType) {
			anyMulti = true
		}
	}

	l.GeomKind = sawKind
	if anyMulti {
		l.GeomKind = promoteKind(l.GeomKind)
	}
	return nil
}

// geometryHasMultipleParts does a cheap structural scan of the command
// stream (without coordinate decoding) to see whether it encodes more
// than one MoveTo point in total: a multi-point, more than one line, or
// more than one ring (so a polygon with a hole is promoted too), per the
// promotion rule in spec §4.7.
func geometryHasMultipleParts(cmds []uint32, t FeatureGeomType) bool {
	moveToCount := 0
	idx := 0
	for idx < len(cmds) {
		id := int(cmds[idx] & 0x7)
		count := int(cmds[idx] >> 3)
		idx++
		switch id {
		case cmdMoveTo:
			moveToCount += count
			idx += 2 * count
		case cmdLineTo:
			idx += 2 * count
		case cmdClosePath:
			// no parameters
		default:
			return false
		}
	}
	if t == GeomPoint {
		return moveToCount > 1
	}
	return moveToCount > 1
}

// FeatureCount returns the number of features in the layer.
func (l *Layer) FeatureCount() int { return len(l.featureBufs) }

// Reset restarts feature iteration from the first feature (spec §9
// "Iterator semantics").
func (l *Layer) Reset() { l.cursor = 0 }

// NextFeature decodes and returns the next feature, or (nil, nil, false)
// once exhausted. Malformed features are skipped, not fatal (spec §7).
func (l *Layer) NextFeature() (*Feature, error, bool) {
	for l.cursor < len(l.featureBufs) {
		fb := l.featureBufs[l.cursor]
		l.cursor++
		f, err := l.buildFeature(fb)
		if err != nil {
			continue
		}
		return f, nil, true
	}
	return nil, nil, false
}

// Feature returns the feature at 0-based index idx within this layer
// (spec §6 TileLayer.feature(id)).
func (l *Layer) Feature(idx int) (*Feature, error) {
	if idx < 0 || idx >= len(l.featureBufs) {
		return nil, fmt.Errorf("mvt: feature index %d out of range", idx)
	}
	return l.buildFeature(l.featureBufs[idx])
}

func (l *Layer) buildFeature(fb []byte) (*Feature, error) {
	raw, err := decodeRawFeature(fb)
	if err != nil {
		return nil, err
	}
	attrs, err := resolveAttributes(raw.tags, l.keys, l.values)
	if err != nil {
		return nil, err
	}
	geom, err := decodeGeometry(raw.geomCmds, raw.geomType, l.transform)
	if err != nil {
		return nil, err
	}
	if l.clip {
		geom, err = clipToTile(geom, raw.geomType, l.transform)
		if err != nil {
			return nil, err
		}
		if geom == nil {
			return nil, fmt.Errorf("mvt: feature wholly outside tile envelope")
		}
	}
	return &Feature{ID: raw.id, HasID: raw.hasID, Geom: geom, Attrs: attrs}, nil
}
