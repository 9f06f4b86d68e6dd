package mvt

import "testing"

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)} {
		encoded := encodeVarint(v)
		r := newFieldReader(encoded)
		got, err := r.readVarint()
		if err != nil {
			t.Fatalf("readVarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("readVarint round trip = %d, want %d", got, v)
		}
	}
}

func TestReadTagRoundTrip(t *testing.T) {
	r := newFieldReader(encodeTag(5, wireVarint))
	field, wireType, err := r.readTag()
	if err != nil {
		t.Fatalf("readTag: %v", err)
	}
	if field != 5 || wireType != wireVarint {
		t.Errorf("readTag = (%d,%d), want (5,%d)", field, wireType, wireVarint)
	}
}

func TestReadBytesTruncated(t *testing.T) {
	r := newFieldReader([]byte{0x05, 0x01, 0x02})
	if _, err := r.readBytes(); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestZigzagDecode32(t *testing.T) {
	cases := []int32{0, -1, 1, -2, 2, 1000, -1000}
	for _, c := range cases {
		if got := zigzagDecode32(zigzagEncode32(c)); got != c {
			t.Errorf("zigzagDecode32(zigzagEncode32(%d)) = %d", c, got)
		}
	}
}

func TestSkipUnknownWireType(t *testing.T) {
	r := newFieldReader([]byte{0xFF})
	if err := r.skip(3); err == nil {
		t.Fatal("expected error for unknown wire type")
	}
}
