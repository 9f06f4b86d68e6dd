package mvt

import (
	"fmt"
	"math"
)

// ValueKind is the tagged-union discriminant for Value (spec §3): the
// MVT wire format's seven value-message fields collapse onto six
// semantic kinds, keeping float32 and float64 distinguishable so schema
// widening (§4.7) can retain the narrower real subtype.
type ValueKind int

const (
	KindString ValueKind = iota
	KindFloat32
	KindFloat64
	KindInt64
	KindUInt64
	KindBool
)

// Value is the decoded form of an MVT attribute value message: exactly
// one of its fields was present on the wire (spec §3 "stable once
// built").
type Value struct {
	Kind ValueKind
	Str  string
	Real float64
	Int  int64
	UInt uint64
	Bool bool
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%v", v.Real)
	case KindInt64:
		return fmt.Sprintf("%d", v.Int)
	case KindUInt64:
		return fmt.Sprintf("%d", v.UInt)
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	default:
		return ""
	}
}

// decodeValue parses one MVT Value message (spec §3, §4.7): fields 1-7
// are string/float/double/int64/uint64/sint64/bool, and exactly one
// should be present.
func decodeValue(buf []byte) (Value, error) {
	r := newFieldReader(buf)
	var v Value
	set := false

	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return Value{}, err
		}
		switch field {
		case 1:
			s, err := r.readBytes()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindString, Str: string(s)}, true
		case 2:
			bits, err := r.readFixed32()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindFloat32, Real: float64(math.Float32frombits(bits))}, true
		case 3:
			bits, err := r.readFixed64()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindFloat64, Real: math.Float64frombits(bits)}, true
		case 4:
			n, err := r.readVarint()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindInt64, Int: int64(n)}, true
		case 5:
			n, err := r.readVarint()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindUInt64, UInt: n}, true
		case 6:
			n, err := r.readVarint()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindInt64, Int: zigzagDecode64(n)}, true
		case 7:
			n, err := r.readVarint()
			if err != nil {
				return Value{}, err
			}
			v, set = Value{Kind: KindBool, Bool: n != 0}, true
		default:
			if err := r.skip(wireType); err != nil {
				return Value{}, err
			}
		}
	}
	if !set {
		return Value{}, fmt.Errorf("mvt: value message carries no recognized field")
	}
	return v, nil
}
