package blend

import "fmt"

// Operator is the tagged enum of the ten supported Porter-Duff-style
// composition operators (spec §3, §4.2).
type Operator int

const (
	SrcOver Operator = iota
	HSVValue
	Multiply
	Screen
	Overlay
	HardLight
	Darken
	Lighten
	ColorBurn
	ColorDodge
)

// operatorNames is the canonical string table backing ParseOperator and
// String; built once and treated as immutable (spec §9: no global mutable
// state).
var operatorNames = [...]string{
	SrcOver:    "src-over",
	HSVValue:   "hsv-value",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	HardLight:  "hard-light",
	Darken:     "darken",
	Lighten:    "lighten",
	ColorBurn:  "color-burn",
	ColorDodge: "color-dodge",
}

func (op Operator) String() string {
	if int(op) < 0 || int(op) >= len(operatorNames) {
		return "unknown"
	}
	return operatorNames[op]
}

// ParseOperator resolves an operator name. On an unknown name it returns
// SrcOver alongside the error, matching the spec's "well-defined fallback
// to SRC-OVER for string lookups used diagnostically" (§4.5) — callers
// that only log the name can use the returned operator without a second
// branch, but make_blend itself must treat the error as fatal and must not
// construct a dataset.
func ParseOperator(name string) (Operator, error) {
	for i, n := range operatorNames {
		if n == name {
			return Operator(i), nil
		}
	}
	return SrcOver, fmt.Errorf("blend: unknown operator %q", name)
}

// isSwappable reports whether op is one of the four commutative operators
// for which make_blend may swap base/overlay when base has fewer bands
// (spec §4.5): MULTIPLY, SCREEN, HARD-LIGHT, OVERLAY.
func (op Operator) isSwappable() bool {
	switch op {
	case Multiply, Screen, HardLight, Overlay:
		return true
	default:
		return false
	}
}

// MinBands and MaxBands give the operator's allowed *base* color-band
// count range (spec §4.5; validated against the base dataset only — the
// overlay is bound solely by the generic 1-4 band check and, for
// HSV-Value, its own single-band rule): HSV-Value requires 3 or 4 bands,
// every other operator accepts 1 through 4.
func (op Operator) MinBands() int {
	if op == HSVValue {
		return 3
	}
	return 1
}

func (op Operator) MaxBands() int {
	return 4
}

// hasGenericKernel reports whether op is handled by the generic
// per-operator row kernel dispatch (spec §4.4 item 3).
func (op Operator) hasGenericKernel() bool {
	switch op {
	case Multiply, Overlay, Screen, HardLight, Darken, Lighten, ColorBurn, ColorDodge:
		return true
	default:
		return false
	}
}
