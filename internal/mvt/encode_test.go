package mvt

// Minimal hand-rolled protobuf encoders used only by this package's own
// tests, to build wire bytes without depending on a protobuf library
// (mirroring the hand-rolled decoder this package implements).

func encodeVarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func encodeTag(field, wireType int) []byte {
	return encodeVarint(uint64(field)<<3 | uint64(wireType))
}

func encodeBytesField(field int, payload []byte) []byte {
	out := encodeTag(field, wireBytes)
	out = append(out, encodeVarint(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func encodeVarintField(field int, v uint64) []byte {
	out := encodeTag(field, wireVarint)
	out = append(out, encodeVarint(v)...)
	return out
}

func encodePackedVarintField(field int, vs []uint32) []byte {
	var payload []byte
	for _, v := range vs {
		payload = append(payload, encodeVarint(uint64(v))...)
	}
	return encodeBytesField(field, payload)
}

func zigzagEncode32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func cmdAndCount(id, count int) uint32 {
	return uint32(count<<3 | id)
}

// buildMoveTo encodes a MoveTo(count) group followed by the given
// (dx,dy) deltas.
func buildMoveTo(deltas [][2]int32) []uint32 {
	cmds := []uint32{cmdAndCount(cmdMoveTo, len(deltas))}
	for _, d := range deltas {
		cmds = append(cmds, zigzagEncode32(d[0]), zigzagEncode32(d[1]))
	}
	return cmds
}

func buildLineTo(deltas [][2]int32) []uint32 {
	cmds := []uint32{cmdAndCount(cmdLineTo, len(deltas))}
	for _, d := range deltas {
		cmds = append(cmds, zigzagEncode32(d[0]), zigzagEncode32(d[1]))
	}
	return cmds
}

func closePath() []uint32 {
	return []uint32{cmdAndCount(cmdClosePath, 1)}
}

// encodeValueMessage builds an MVT Value submessage payload for the
// given kind.
func encodeValueMessage(v Value) []byte {
	switch v.Kind {
	case KindString:
		return encodeBytesField(1, []byte(v.Str))
	case KindInt64:
		return encodeVarintField(4, uint64(v.Int))
	case KindUInt64:
		return encodeVarintField(5, v.UInt)
	case KindBool:
		b := uint64(0)
		if v.Bool {
			b = 1
		}
		return encodeVarintField(7, b)
	default:
		return nil
	}
}

// buildFeature encodes a Feature message: id, tags (packed), type, geometry (packed).
func buildFeature(id uint64, hasID bool, tags []uint32, geomType FeatureGeomType, cmds []uint32) []byte {
	var out []byte
	if hasID {
		out = append(out, encodeVarintField(1, id)...)
	}
	if len(tags) > 0 {
		out = append(out, encodePackedVarintField(2, tags)...)
	}
	out = append(out, encodeVarintField(3, uint64(geomType))...)
	out = append(out, encodePackedVarintField(4, cmds)...)
	return out
}

// buildLayer encodes a full Layer message.
func buildLayer(name string, keys []string, values []Value, extent uint32, version uint32, features [][]byte) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, []byte(name))...)
	for _, f := range features {
		out = append(out, encodeBytesField(2, f)...)
	}
	for _, k := range keys {
		out = append(out, encodeBytesField(3, []byte(k))...)
	}
	for _, v := range values {
		out = append(out, encodeBytesField(4, encodeValueMessage(v))...)
	}
	if extent != 0 {
		out = append(out, encodeVarintField(5, uint64(extent))...)
	}
	if version != 0 {
		out = append(out, encodeVarintField(15, uint64(version))...)
	}
	return out
}

// buildTile encodes a full tile message (repeated field-3 layers).
func buildTile(layers [][]byte) []byte {
	var out []byte
	for _, l := range layers {
		out = append(out, encodeBytesField(3, l)...)
	}
	return out
}
