package blend

import "testing"

func TestParseOperatorRoundTrip(t *testing.T) {
	ops := []Operator{SrcOver, HSVValue, Multiply, Screen, Overlay, HardLight, Darken, Lighten, ColorBurn, ColorDodge}
	for _, op := range ops {
		got, err := ParseOperator(op.String())
		if err != nil {
			t.Fatalf("ParseOperator(%q) returned error: %v", op.String(), err)
		}
		if got != op {
			t.Errorf("ParseOperator(%q) = %v, want %v", op.String(), got, op)
		}
	}
}

func TestParseOperatorUnknownFallsBackToSrcOver(t *testing.T) {
	op, err := ParseOperator("not-a-real-operator")
	if err == nil {
		t.Fatal("expected error for unknown operator name")
	}
	if op != SrcOver {
		t.Errorf("fallback operator = %v, want SrcOver", op)
	}
}

func TestIsSwappable(t *testing.T) {
	swappable := map[Operator]bool{
		SrcOver: false, HSVValue: false,
		Multiply: true, Screen: true, Overlay: true, HardLight: true,
		Darken: false, Lighten: false, ColorBurn: false, ColorDodge: false,
	}
	for op, want := range swappable {
		if got := op.isSwappable(); got != want {
			t.Errorf("%v.isSwappable() = %v, want %v", op, got, want)
		}
	}
}

func TestHSVValueBandRange(t *testing.T) {
	if HSVValue.MinBands() != 3 || HSVValue.MaxBands() != 4 {
		t.Errorf("HSVValue band range = [%d,%d], want [3,4]", HSVValue.MinBands(), HSVValue.MaxBands())
	}
	if SrcOver.MinBands() != 1 || SrcOver.MaxBands() != 4 {
		t.Errorf("SrcOver band range = [%d,%d], want [1,4]", SrcOver.MinBands(), SrcOver.MaxBands())
	}
}
