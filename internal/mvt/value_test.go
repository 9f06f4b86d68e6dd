package mvt

import "testing"

func TestDecodeValueString(t *testing.T) {
	buf := encodeBytesField(1, []byte("hello"))
	v, err := decodeValue(buf)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if v.Kind != KindString || v.Str != "hello" {
		t.Errorf("got %+v, want String(hello)", v)
	}
}

func TestDecodeValueInt64(t *testing.T) {
	buf := encodeVarintField(4, 12345)
	v, err := decodeValue(buf)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if v.Kind != KindInt64 || v.Int != 12345 {
		t.Errorf("got %+v, want Int64(12345)", v)
	}
}

func TestDecodeValueSInt64Zigzag(t *testing.T) {
	buf := encodeVarintField(6, uint64(zigzagEncode32(-42)))
	v, err := decodeValue(buf)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if v.Kind != KindInt64 || v.Int != -42 {
		t.Errorf("got %+v, want Int64(-42)", v)
	}
}

func TestDecodeValueBool(t *testing.T) {
	buf := encodeVarintField(7, 1)
	v, err := decodeValue(buf)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("got %+v, want Bool(true)", v)
	}
}

func TestDecodeValueEmptyIsError(t *testing.T) {
	if _, err := decodeValue(nil); err == nil {
		t.Fatal("expected error for empty value message")
	}
}
