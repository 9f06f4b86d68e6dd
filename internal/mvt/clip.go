package mvt

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/pspoerri/rastermvt/internal/coord"
)

// clipToTile implements the optional geometry clipping of spec §4.9: a
// feature wholly inside the tile envelope passes through unchanged, one
// wholly outside is dropped (nil, nil), and one crossing the boundary is
// intersected against the tile polygon using orb/clip.
//
// Clipping is meaningless without a real tile address (there is no
// envelope to clip against for the identity-mapping case), so it is a
// no-op when the transform carries no (Z,X,Y).
func clipToTile(geom orb.Geometry, ft FeatureGeomType, transform coord.TileTransform) (orb.Geometry, error) {
	if geom == nil {
		return nil, nil
	}
	if !transform.HasTileAddress() {
		return geom, nil
	}

	minX, minY, maxX, maxY := coord.TileBoundsMeters(transform.Z(), transform.X(), transform.Y())
	bound := orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}

	gb := geom.Bound()
	if !boundsOverlap(bound, gb) {
		return nil, nil
	}
	if boundContains(bound, gb) {
		return geom, nil
	}

	clipped := clip.Geometry(bound, geom)
	return normalizeClipped(clipped, ft), nil
}

func boundsOverlap(a, b orb.Bound) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

func boundContains(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Max[0] >= inner.Max[0] &&
		outer.Min[1] <= inner.Min[1] && outer.Max[1] >= inner.Max[1]
}

// normalizeClipped applies the post-intersection rules of spec §4.9: a
// GeometryCollection result is filtered down to parts matching the
// feature's base type (empties dropped); a single remaining part is
// returned as that single geometry, and it is not rewrapped into a
// Multi- kind. Any result other than a GeometryCollection is returned
// unchanged.
func normalizeClipped(g orb.Geometry, ft FeatureGeomType) orb.Geometry {
	if coll, ok := g.(orb.Collection); ok {
		var kept []orb.Geometry
		for _, part := range coll {
			if isEmptyGeometry(part) {
				continue
			}
			if matchesBaseType(part, ft) {
				kept = append(kept, part)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		if len(kept) == 1 {
			return kept[0]
		}
		return wrapMulti(kept, ft)
	}
	return g
}

func isEmptyGeometry(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.LineString:
		return len(v) == 0
	case orb.Polygon:
		return len(v) == 0
	case orb.MultiPoint:
		return len(v) == 0
	case orb.MultiLineString:
		return len(v) == 0
	case orb.MultiPolygon:
		return len(v) == 0
	default:
		return g == nil
	}
}

func matchesBaseType(g orb.Geometry, ft FeatureGeomType) bool {
	switch ft {
	case GeomPoint:
		_, ok := g.(orb.Point)
		return ok
	case GeomLineString:
		_, ok := g.(orb.LineString)
		return ok
	case GeomPolygon:
		_, ok := g.(orb.Polygon)
		return ok
	default:
		return true
	}
}

func wrapMulti(parts []orb.Geometry, ft FeatureGeomType) orb.Geometry {
	switch ft {
	case GeomPoint:
		mp := make(orb.MultiPoint, 0, len(parts))
		for _, p := range parts {
			mp = append(mp, p.(orb.Point))
		}
		return mp
	case GeomLineString:
		mls := make(orb.MultiLineString, 0, len(parts))
		for _, p := range parts {
			mls = append(mls, p.(orb.LineString))
		}
		return mls
	case GeomPolygon:
		mpoly := make(orb.MultiPolygon, 0, len(parts))
		for _, p := range parts {
			mpoly = append(mpoly, p.(orb.Polygon))
		}
		return mpoly
	default:
		return orb.Collection(parts)
	}
}
