package mvtdir

import (
	"encoding/json"

	"github.com/pspoerri/rastermvt/internal/mvt"
)

// Feature is the public record a DirectoryLayer yields: a *mvt.Feature
// whose ID has been replaced by the directory-wide synthesized FID, so
// that get_by_id is a stable round trip across tiles (spec §4.10).
type Feature = mvt.Feature

// translateFeature rebuilds the public feature for fid from the raw
// tile-local feature f, optionally folding its attributes into a single
// JSON field (the json_field option recovered from original_source/,
// spec.md's "SUPPLEMENTED FEATURES").
func translateFeature(f *mvt.Feature, fid uint64, jsonField string) (*mvt.Feature, error) {
	out := &mvt.Feature{ID: fid, HasID: true, Geom: f.Geom}
	if jsonField == "" {
		out.Attrs = f.Attrs
		return out, nil
	}

	obj := make(map[string]interface{}, len(f.Attrs))
	for _, a := range f.Attrs {
		obj[a.Key] = attributeJSONValue(a.Value)
	}
	blob, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	out.Attrs = []mvt.Attribute{{
		Key:   jsonField,
		Value: mvt.Value{Kind: mvt.KindString, Str: string(blob)},
	}}
	return out, nil
}

func attributeJSONValue(v mvt.Value) interface{} {
	switch v.Kind {
	case mvt.KindString:
		return v.Str
	case mvt.KindBool:
		return v.Bool
	case mvt.KindInt64:
		return v.Int
	case mvt.KindUInt64:
		return v.UInt
	case mvt.KindFloat32, mvt.KindFloat64:
		return v.Real
	default:
		return nil
	}
}
