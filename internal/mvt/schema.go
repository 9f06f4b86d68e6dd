package mvt

import "math"

// FieldBase is the storage class of a discovered attribute field.
type FieldBase int

const (
	BaseInt32 FieldBase = iota
	BaseInt64
	BaseReal32
	BaseReal64
	BaseString
)

func (b FieldBase) String() string {
	switch b {
	case BaseInt32:
		return "int32"
	case BaseInt64:
		return "int64"
	case BaseReal32:
		return "real32"
	case BaseReal64:
		return "real64"
	case BaseString:
		return "string"
	default:
		return "unknown"
	}
}

// FieldType is a discovered field's type plus the GDAL-style "Boolean"
// subtype carried over an integer base (spec §4.7's widening rules refer
// to this subtype explicitly).
type FieldType struct {
	Base    FieldBase
	Boolean bool
}

// valueFieldType infers the narrowest FieldType a single Value implies
// (spec §4.7): integers are classified Int32 when they fit in 32 bits,
// widening to Int64 only when a value actually needs it.
func valueFieldType(v Value) FieldType {
	switch v.Kind {
	case KindString:
		return FieldType{Base: BaseString}
	case KindFloat32:
		return FieldType{Base: BaseReal32}
	case KindFloat64:
		return FieldType{Base: BaseReal64}
	case KindBool:
		return FieldType{Base: BaseInt32, Boolean: true}
	case KindInt64:
		if v.Int >= math.MinInt32 && v.Int <= math.MaxInt32 {
			return FieldType{Base: BaseInt32}
		}
		return FieldType{Base: BaseInt64}
	case KindUInt64:
		if v.UInt <= math.MaxInt32 {
			return FieldType{Base: BaseInt32}
		}
		return FieldType{Base: BaseInt64}
	default:
		return FieldType{Base: BaseString}
	}
}

func isReal(b FieldBase) bool { return b == BaseReal32 || b == BaseReal64 }

// widenFieldType applies the collision rules of spec §4.7: any String
// source widens the target to String; an Int64 source against an Int32
// target widens to Int64; a Real source against an integer target
// widens to Real (keeping Real32 only if neither side demands Real64);
// two identical int kinds both carrying the Boolean subtype stay
// Boolean, any other combination clears it.
func widenFieldType(target, src FieldType) FieldType {
	if target.Base == BaseString || src.Base == BaseString {
		return FieldType{Base: BaseString}
	}

	switch {
	case isReal(target.Base) && isReal(src.Base):
		if target.Base == BaseReal64 || src.Base == BaseReal64 {
			return FieldType{Base: BaseReal64}
		}
		return FieldType{Base: BaseReal32}
	case isReal(target.Base) && !isReal(src.Base):
		return target
	case !isReal(target.Base) && isReal(src.Base):
		return src
	}

	// Both integer kinds.
	if target.Base == BaseInt64 || src.Base == BaseInt64 {
		return FieldType{Base: BaseInt64}
	}
	return FieldType{Base: BaseInt32, Boolean: target.Boolean && src.Boolean}
}

// Schema is the discovered or externally-supplied attribute field list
// for a layer, in first-seen order (spec §4.7, §4.10).
type Schema struct {
	Fields []string
	Types  []FieldType
	index  map[string]int
}

func newSchema() *Schema {
	return &Schema{index: make(map[string]int)}
}

// NewSchema builds an empty Schema that callers can widen directly —
// used by mvtdir to construct a schema straight from metadata.json's
// vector_layers field map, bypassing per-tile discovery entirely.
func NewSchema() *Schema { return newSchema() }

// widen adds name/t as a new field, or widens the existing field's type
// to accommodate t if name was already seen.
func (s *Schema) widen(name string, t FieldType) {
	if i, ok := s.index[name]; ok {
		s.Types[i] = widenFieldType(s.Types[i], t)
		return
	}
	s.index[name] = len(s.Fields)
	s.Fields = append(s.Fields, name)
	s.Types = append(s.Types, t)
}

// Widen adds name/t as a new field, or widens its existing type to
// accommodate t — the exported form of widen, for callers (mvtdir)
// building a Schema outside the two-pass layer scan.
func (s *Schema) Widen(name string, t FieldType) { s.widen(name, t) }

// Type returns the discovered type of field name and whether it exists.
func (s *Schema) Type(name string) (FieldType, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldType{}, false
	}
	return s.Types[i], true
}
