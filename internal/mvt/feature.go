package mvt

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Attribute is one resolved (name, value) pair on a feature, kept in the
// order the feature's tag list declared it.
type Attribute struct {
	Key   string
	Value Value
}

// Feature is a fully decoded MVT feature (spec §3 FeatureRecord, after
// translation): its geometry is in the layer's target coordinate space,
// and its tag indices have been resolved against the layer's keys/values.
type Feature struct {
	ID      uint64
	HasID   bool
	Geom    orb.Geometry
	Attrs   []Attribute
}

// rawFeature is the untranslated form produced by a single decode pass
// over a feature submessage (spec §3).
type rawFeature struct {
	id       uint64
	hasID    bool
	tags     []uint32
	geomType FeatureGeomType
	geomCmds []uint32
}

// decodeRawFeature parses one Feature message's fields (spec §4.8):
// id (1), tags (2, packed), type (3), geometry (4, packed).
func decodeRawFeature(buf []byte) (rawFeature, error) {
	var f rawFeature
	r := newFieldReader(buf)
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return rawFeature{}, err
		}
		switch field {
		case 1:
			v, err := r.readVarint()
			if err != nil {
				return rawFeature{}, err
			}
			f.id, f.hasID = v, true
		case 2:
			tags, err := r.readPackedVarints()
			if err != nil {
				return rawFeature{}, err
			}
			f.tags = tags
		case 3:
			v, err := r.readVarint()
			if err != nil {
				return rawFeature{}, err
			}
			f.geomType = FeatureGeomType(v)
		case 4:
			cmds, err := r.readPackedVarints()
			if err != nil {
				return rawFeature{}, err
			}
			f.geomCmds = cmds
		default:
			if err := r.skip(wireType); err != nil {
				return rawFeature{}, err
			}
		}
	}
	if len(f.tags)%2 != 0 {
		return rawFeature{}, fmt.Errorf("mvt: feature tag list has odd length")
	}
	return f, nil
}

// resolveAttributes binds a raw feature's (key_idx, value_idx) tag pairs
// against the layer's keys/values arrays, rejecting the feature if any
// index is out of range (spec §3, §7).
func resolveAttributes(tags []uint32, keys []string, values []Value) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		ki, vi := int(tags[i]), int(tags[i+1])
		if ki < 0 || ki >= len(keys) {
			return nil, fmt.Errorf("mvt: feature key index %d out of range", ki)
		}
		if vi < 0 || vi >= len(values) {
			return nil, fmt.Errorf("mvt: feature value index %d out of range", vi)
		}
		attrs = append(attrs, Attribute{Key: keys[ki], Value: values[vi]})
	}
	return attrs, nil
}
