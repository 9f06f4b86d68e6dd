package mvtdir

// Minimal hand-rolled MVT tile encoders, mirroring internal/mvt's own
// test fixtures, used only to build in-memory tiles for this package's
// tests without a protobuf library.

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
	out := encodeTag(field, 2)
	out = append(out, encodeVarint(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func encodeVarintField(field int, v uint64) []byte {
	out := encodeTag(field, 0)
	return append(out, encodeVarint(v)...)
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

func buildMoveTo(deltas [][2]int32) []uint32 {
	cmds := []uint32{cmdAndCount(1, len(deltas))}
	for _, d := range deltas {
		cmds = append(cmds, zigzagEncode32(d[0]), zigzagEncode32(d[1]))
	}
	return cmds
}

// buildFeature encodes a Feature message with a string/int64 tag pair at
// most (key index 0/value index 0), for schema-discovery tests.
func buildFeature(id uint64, tags []uint32, geomType int, cmds []uint32) []byte {
	var out []byte
	out = append(out, encodeVarintField(1, id)...)
	if len(tags) > 0 {
		out = append(out, encodePackedVarintField(2, tags)...)
	}
	out = append(out, encodeVarintField(3, uint64(geomType))...)
	out = append(out, encodePackedVarintField(4, cmds)...)
	return out
}

func encodeStringValue(s string) []byte { return encodeBytesField(1, []byte(s)) }
func encodeInt64Value(v int64) []byte   { return encodeVarintField(4, uint64(v)) }

func buildLayer(name string, keys []string, values [][]byte, extent uint32, features [][]byte) []byte {
	var out []byte
	out = append(out, encodeBytesField(1, []byte(name))...)
	for _, f := range features {
		out = append(out, encodeBytesField(2, f)...)
	}
	for _, k := range keys {
		out = append(out, encodeBytesField(3, []byte(k))...)
	}
	for _, v := range values {
		out = append(out, encodeBytesField(4, v)...)
	}
	out = append(out, encodeVarintField(5, uint64(extent))...)
	out = append(out, encodeVarintField(15, 2)...)
	return out
}

func buildTile(layers [][]byte) []byte {
	var out []byte
	for _, l := range layers {
		out = append(out, encodeBytesField(3, l)...)
	}
	return out
}
