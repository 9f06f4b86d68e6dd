package mvt

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/pspoerri/rastermvt/internal/coord"
)

// FeatureGeomType is the feature-level type tag (spec §4.8 field 3).
type FeatureGeomType int

const (
	GeomUnknown FeatureGeomType = iota
	GeomPoint
	GeomLineString
	GeomPolygon
)

const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

// decodeGeometry walks a feature's geometry command stream (spec §4.8):
// a varint cmd_and_count per group, followed by 2*count zig-zag deltas
// for MoveTo/LineTo. Coordinates are cumulative from (0,0) per feature
// and converted to the transform's target space immediately.
func decodeGeometry(cmds []uint32, geomType FeatureGeomType, transform coord.TileTransform) (orb.Geometry, error) {
	switch geomType {
	case GeomPoint:
		return decodePointGeometry(cmds, transform)
	case GeomLineString:
		return decodeLineGeometry(cmds, transform)
	case GeomPolygon:
		return decodePolygonGeometry(cmds, transform)
	default:
		return nil, fmt.Errorf("mvt: unknown feature geometry type %d", geomType)
	}
}

// cmdCursor walks the command-stream varints, tracking cumulative
// tile-local position.
type cmdCursor struct {
	cmds   []uint32
	idx    int
	cx, cy int32
}

func (c *cmdCursor) next() (id, count int, ok bool) {
	if c.idx >= len(c.cmds) {
		return 0, 0, false
	}
	v := c.cmds[c.idx]
	c.idx++
	return int(v & 0x7), int(v >> 3), true
}

func (c *cmdCursor) point(transform coord.TileTransform) (orb.Point, error) {
	if c.idx+1 >= len(c.cmds) {
		return orb.Point{}, fmt.Errorf("mvt: truncated geometry coordinate")
	}
	dx := zigzagDecode32(c.cmds[c.idx])
	dy := zigzagDecode32(c.cmds[c.idx+1])
	c.idx += 2
	c.cx += dx
	c.cy += dy
	wx, wy := transform.ToWorld(c.cx, c.cy)
	return orb.Point{wx, wy}, nil
}

func decodePointGeometry(cmds []uint32, transform coord.TileTransform) (orb.Geometry, error) {
	cur := &cmdCursor{cmds: cmds}
	id, count, ok := cur.next()
	if !ok || id != cmdMoveTo {
		return nil, fmt.Errorf("mvt: point geometry must start with MoveTo")
	}
	if count < 1 {
		return nil, fmt.Errorf("mvt: MoveTo with zero repeat count")
	}
	pts := make(orb.MultiPoint, 0, count)
	for i := 0; i < count; i++ {
		p, err := cur.point(transform)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	if len(pts) == 1 {
		return pts[0], nil
	}
	return pts, nil
}

func decodeLineGeometry(cmds []uint32, transform coord.TileTransform) (orb.Geometry, error) {
	cur := &cmdCursor{cmds: cmds}
	var lines orb.MultiLineString

	for cur.idx < len(cur.cmds) {
		id, count, ok := cur.next()
		if !ok {
			break
		}
		if id != cmdMoveTo || count != 1 {
			return nil, fmt.Errorf("mvt: line group must start with MoveTo(1)")
		}
		start, err := cur.point(transform)
		if err != nil {
			return nil, err
		}
		id, count, ok = cur.next()
		if !ok || id != cmdLineTo {
			return nil, fmt.Errorf("mvt: line group missing LineTo")
		}
		line := make(orb.LineString, 0, count+1)
		line = append(line, start)
		for i := 0; i < count; i++ {
			p, err := cur.point(transform)
			if err != nil {
				return nil, err
			}
			line = append(line, p)
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("mvt: line geometry decoded no parts")
	}
	if len(lines) == 1 {
		return lines[0], nil
	}
	return lines, nil
}

// ringWinding returns the sign of the ring's signed (shoelace) area:
// positive for one rotational direction, negative for the other. Only
// the sign is meaningful; rings are compared against each other, not
// against an absolute clockwise/counterclockwise convention.
func ringWinding(ring orb.Ring) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum
}

func decodePolygonGeometry(cmds []uint32, transform coord.TileTransform) (orb.Geometry, error) {
	cur := &cmdCursor{cmds: cmds}
	var polygons []orb.Polygon
	var exteriorSign float64
	haveExterior := false

	for cur.idx < len(cur.cmds) {
		id, count, ok := cur.next()
		if !ok {
			break
		}
		if id != cmdMoveTo || count != 1 {
			return nil, fmt.Errorf("mvt: ring must start with MoveTo(1)")
		}
		start, err := cur.point(transform)
		if err != nil {
			return nil, err
		}
		id, count, ok = cur.next()
		if !ok || id != cmdLineTo {
			return nil, fmt.Errorf("mvt: ring missing LineTo")
		}
		ring := make(orb.Ring, 0, count+2)
		ring = append(ring, start)
		for i := 0; i < count; i++ {
			p, err := cur.point(transform)
			if err != nil {
				return nil, err
			}
			ring = append(ring, p)
		}
		id, count, ok = cur.next()
		if !ok || id != cmdClosePath || count != 1 {
			return nil, fmt.Errorf("mvt: ring missing ClosePath(1)")
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}

		sign := ringWinding(ring)

		switch {
		case !haveExterior:
			polygons = append(polygons, orb.Polygon{ring})
			exteriorSign = sign
			haveExterior = true
		case sameSign(sign, exteriorSign):
			// Same winding as the exterior starts a new polygon
			// (spec §4.8).
			polygons = append(polygons, orb.Polygon{ring})
		default:
			last := &polygons[len(polygons)-1]
			*last = append(*last, ring)
		}
	}

	if len(polygons) == 0 {
		return nil, fmt.Errorf("mvt: polygon geometry decoded no rings")
	}
	if len(polygons) == 1 {
		return polygons[0], nil
	}
	return orb.MultiPolygon(polygons), nil
}

func sameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	return (a > 0) == (b > 0)
}
