package blend

import "testing"

func TestMul255Identity(t *testing.T) {
	for x := 0; x <= 255; x++ {
		if got := mul255(uint8(x), 255); got != uint8(x) {
			t.Errorf("mul255(%d, 255) = %d, want %d", x, got, x)
		}
	}
}

func TestMul255Commutative(t *testing.T) {
	for a := 0; a <= 255; a += 7 {
		for b := 0; b <= 255; b += 11 {
			if got, want := mul255(uint8(a), uint8(b)), mul255(uint8(b), uint8(a)); got != want {
				t.Errorf("mul255(%d,%d)=%d != mul255(%d,%d)=%d", a, b, got, b, a, want)
			}
		}
	}
}

func TestMul255Zero(t *testing.T) {
	for x := 0; x <= 255; x += 3 {
		if got := mul255(uint8(x), 0); got != 0 {
			t.Errorf("mul255(%d, 0) = %d, want 0", x, got)
		}
		if got := mul255(0, uint8(x)); got != 0 {
			t.Errorf("mul255(0, %d) = %d, want 0", x, got)
		}
	}
}

func TestCombineAlphaOpaqueDest(t *testing.T) {
	for sa := 0; sa <= 255; sa += 5 {
		if got := combineAlpha(uint8(sa), 255); got != 255 {
			t.Errorf("combineAlpha(%d, 255) = %d, want 255", sa, got)
		}
	}
}

func TestCombineAlphaZeroSrc(t *testing.T) {
	for da := 0; da <= 255; da += 5 {
		if got := combineAlpha(0, uint8(da)); got != uint8(da) {
			t.Errorf("combineAlpha(0, %d) = %d, want %d", da, got, da)
		}
	}
}

func TestPremultiplyOpaquePassthrough(t *testing.T) {
	r, g, b := premultiply(10, 200, 255, 255)
	if r != 10 || g != 200 || b != 255 {
		t.Errorf("premultiply with a=255 changed values: got (%d,%d,%d)", r, g, b)
	}
}

func TestPremultiplyTransparent(t *testing.T) {
	r, g, b := premultiply(10, 200, 255, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("premultiply with a=0 should zero all channels, got (%d,%d,%d)", r, g, b)
	}
}

// TestDivByAlphaTableExact pins divByAlphaTable against the original's
// unscaled divide-by-alpha (SHIFT_DIV_DSTA=8, ROUND_OFFSET_DIV_DSTA=255,
// applied directly with no caller pre-shift). The first case is the
// ground-truth worked example: a fully transparent base (A=0) under a
// 128-alpha, R=200 overlay at 100% opacity must unpremultiply back to
// exactly 200, not 199.
func TestDivByAlphaTableExact(t *testing.T) {
	cases := []struct {
		x, a, want uint8
	}{
		{x: 100, a: 128, want: 200},
		{x: 0, a: 200, want: 0},
		{x: 255, a: 255, want: 255},
		{x: 200, a: 255, want: 200},
		{x: 32, a: 64, want: 128},
	}
	for _, c := range cases {
		if got := divByAlphaTable(uint32(c.x), c.a); got != c.want {
			t.Errorf("divByAlphaTable(%d, %d) = %d, want %d", c.x, c.a, got, c.want)
		}
	}
}

// TestDivByAlphaTableRoundTrip checks that premultiplying a channel by its
// own alpha and then unpremultiplying by that same alpha recovers the
// original value exactly whenever the premultiply step did not itself
// lose precision (alpha==255, or the value is 0). Smaller alphas are not
// exact round trips in general: mul255 and divByAlphaTable each round
// independently, so composing them can differ by the ordinary rounding
// error of a fixed-point divide — that is not this fix's concern.
func TestDivByAlphaTableRoundTrip(t *testing.T) {
	for _, base := range []uint8{0, 1, 17, 64, 128, 200, 254, 255} {
		pre := mul255(base, 255)
		if got := divByAlphaTable(uint32(pre), 255); got != base {
			t.Errorf("divByAlphaTable(premultiply(%d,255),255) = %d, want %d", base, got, base)
		}
	}
	for _, alpha := range []uint8{1, 17, 64, 128, 200, 255} {
		if got := divByAlphaTable(0, alpha); got != 0 {
			t.Errorf("divByAlphaTable(0,%d) = %d, want 0", alpha, got)
		}
	}
}
