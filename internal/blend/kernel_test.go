package blend

import "testing"

func TestBlendRowOpacityZeroIsIdentity(t *testing.T) {
	in := &RowInputs{
		BaseR: Plane{10, 200, 0}, BaseG: Plane{20, 150, 5}, BaseB: Plane{30, 100, 250}, BaseA: Plane{255, 128, 40},
		OverlayR: Plane{250, 250, 250}, OverlayG: Plane{250, 250, 250}, OverlayB: Plane{250, 250, 250}, OverlayA: Plane{255, 255, 255},
		Opacity: 0,
	}
	dst := make([]uint8, 3*4)
	BlendRow(SrcOver, in, dst, 3, 4, 4, 1)

	for i := 0; i < 3; i++ {
		base := i * 4
		if dst[base] != in.BaseR[i] || dst[base+1] != in.BaseG[i] ||
			dst[base+2] != in.BaseB[i] || dst[base+3] != in.BaseA[i] {
			t.Errorf("pixel %d: got (%d,%d,%d,%d), want (%d,%d,%d,%d)", i,
				dst[base], dst[base+1], dst[base+2], dst[base+3],
				in.BaseR[i], in.BaseG[i], in.BaseB[i], in.BaseA[i])
		}
	}
}

// TestBlendRowSrcOverPartialAlphaExact pins the SRC-OVER hot path
// (dataset.go's 4-band fast case) against the ground-truth worked
// example: a fully transparent base under a half-opaque overlay must
// unpremultiply back to the overlay's own color exactly.
func TestBlendRowSrcOverPartialAlphaExact(t *testing.T) {
	in := &RowInputs{
		BaseR: Plane{0}, BaseG: Plane{0}, BaseB: Plane{0}, BaseA: Plane{0},
		OverlayR: Plane{200}, OverlayG: Plane{200}, OverlayB: Plane{200}, OverlayA: Plane{128},
		Opacity: 255,
	}
	dst := make([]uint8, 4)
	BlendRow(SrcOver, in, dst, 1, 4, 4, 1)
	if dst[0] != 200 || dst[1] != 200 || dst[2] != 200 || dst[3] != 128 {
		t.Errorf("SRC-OVER partial-alpha result = %v, want (200,200,200,128)", dst)
	}
}

func TestBlendRowSrcOverOpaqueOverlayWins(t *testing.T) {
	in := &RowInputs{
		BaseR: Plane{10}, BaseG: Plane{20}, BaseB: Plane{30}, BaseA: Plane{255},
		OverlayR: Plane{200}, OverlayG: Plane{150}, OverlayB: Plane{100}, OverlayA: Plane{255},
		Opacity: 255,
	}
	dst := make([]uint8, 4)
	BlendRow(SrcOver, in, dst, 1, 4, 4, 1)
	if dst[0] != 200 || dst[1] != 150 || dst[2] != 100 || dst[3] != 255 {
		t.Errorf("opaque SRC-OVER = %v, want overlay (200,150,100,255)", dst)
	}
}

func TestBlendRowLightenCommutative(t *testing.T) {
	a := &RowInputs{
		BaseR: Plane{80}, BaseG: Plane{80}, BaseB: Plane{80}, BaseA: Plane{255},
		OverlayR: Plane{180}, OverlayG: Plane{180}, OverlayB: Plane{180}, OverlayA: Plane{255},
		Opacity: 255,
	}
	b := &RowInputs{
		BaseR: Plane{180}, BaseG: Plane{180}, BaseB: Plane{180}, BaseA: Plane{255},
		OverlayR: Plane{80}, OverlayG: Plane{80}, OverlayB: Plane{80}, OverlayA: Plane{255},
		Opacity: 255,
	}
	da, db := make([]uint8, 4), make([]uint8, 4)
	BlendRow(Lighten, a, da, 1, 4, 4, 1)
	BlendRow(Lighten, b, db, 1, 4, 4, 1)
	for i := range da {
		if da[i] != db[i] {
			t.Errorf("LIGHTEN not commutative at band %d: %v vs %v", i, da, db)
		}
	}
}

func TestBlendRowDarkenCommutative(t *testing.T) {
	a := &RowInputs{
		BaseR: Plane{80}, BaseG: Plane{80}, BaseB: Plane{80}, BaseA: Plane{255},
		OverlayR: Plane{180}, OverlayG: Plane{180}, OverlayB: Plane{180}, OverlayA: Plane{255},
		Opacity: 255,
	}
	b := &RowInputs{
		BaseR: Plane{180}, BaseG: Plane{180}, BaseB: Plane{180}, BaseA: Plane{255},
		OverlayR: Plane{80}, OverlayG: Plane{80}, OverlayB: Plane{80}, OverlayA: Plane{255},
		Opacity: 255,
	}
	da, db := make([]uint8, 4), make([]uint8, 4)
	BlendRow(Darken, a, da, 1, 4, 4, 1)
	BlendRow(Darken, b, db, 1, 4, 4, 1)
	for i := range da {
		if da[i] != db[i] {
			t.Errorf("DARKEN not commutative at band %d: %v vs %v", i, da, db)
		}
	}
}

func TestScalarVectorizedSrcOverConformance(t *testing.T) {
	for sa := 0; sa <= 255; sa += 17 {
		for da := 0; da <= 255; da += 17 {
			for sc := 0; sc <= 255; sc += 31 {
				for dc := 0; dc <= 255; dc += 31 {
					got := blendRGBAOverVectorized(uint8(sc), uint8(sa), uint8(dc), uint8(da))
					want := blendRGBAOverScalar(uint8(sc), uint8(sa), uint8(dc), uint8(da))
					if got != want {
						t.Fatalf("vectorized/scalar mismatch at (sc=%d,sa=%d,dc=%d,da=%d): got %d want %d", sc, sa, dc, da, got, want)
					}
				}
			}
		}
	}
}
