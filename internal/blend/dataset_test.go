package blend

import "testing"

// fakeRaster is an in-memory RasterSource over a small band-planar image,
// used to exercise make_blend and RasterIO without any real file I/O.
type fakeRaster struct {
	w, h, bands int
	// planes[b] has w*h samples, row-major.
	planes [][]uint8

	overviews []*fakeRaster
}

func newFakeRaster(w, h, bands int, fill func(band, x, y int) uint8) *fakeRaster {
	r := &fakeRaster{w: w, h: h, bands: bands}
	for b := 0; b < bands; b++ {
		p := make([]uint8, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p[y*w+x] = fill(b, x, y)
			}
		}
		r.planes = append(r.planes, p)
	}
	return r
}

func (r *fakeRaster) Width() int  { return r.w }
func (r *fakeRaster) Height() int { return r.h }
func (r *fakeRaster) Bands() int  { return r.bands }

func (r *fakeRaster) ReadPixels(xoff, yoff, xsize, ysize, bufxsize, bufysize int, resampling Resampling, dst []uint8) error {
	// Only exercised with bufxsize==xsize, bufysize==ysize in these tests
	// (no resampling), matching a 1:1 request window.
	windowPixels := bufxsize * bufysize
	for b := 0; b < r.bands; b++ {
		for y := 0; y < ysize; y++ {
			for x := 0; x < xsize; x++ {
				dst[b*windowPixels+y*bufxsize+x] = r.planes[b][(yoff+y)*r.w+(xoff+x)]
			}
		}
	}
	return nil
}

func (r *fakeRaster) OverviewCount() int { return len(r.overviews) }
func (r *fakeRaster) Overview(i int) RasterSource {
	if i < 0 || i >= len(r.overviews) {
		return nil
	}
	return r.overviews[i]
}

func TestMakeBlendRejectsDimensionMismatch(t *testing.T) {
	base := newFakeRaster(4, 4, 4, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(5, 5, 4, func(b, x, y int) uint8 { return 0 })
	if _, err := MakeBlend(base, overlay, "src-over", 100); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestMakeBlendRejectsUnknownOperator(t *testing.T) {
	base := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	if _, err := MakeBlend(base, overlay, "bogus", 100); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestMakeBlendRejectsOpacityOutOfRange(t *testing.T) {
	base := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	if _, err := MakeBlend(base, overlay, "src-over", 101); err == nil {
		t.Fatal("expected error for opacity > 100")
	}
	if _, err := MakeBlend(base, overlay, "src-over", -1); err == nil {
		t.Fatal("expected error for opacity < 0")
	}
}

func TestMakeBlendRejectsDarkenBandMismatch(t *testing.T) {
	base := newFakeRaster(2, 2, 3, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 1, func(b, x, y int) uint8 { return 0 })
	if _, err := MakeBlend(base, overlay, "darken", 100); err == nil {
		t.Fatal("expected error for DARKEN with mismatched color band counts")
	}
}

func TestMakeBlendSwapsCommutativeOperatorWhenBaseHasFewerBands(t *testing.T) {
	base := newFakeRaster(2, 2, 1, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 3, func(b, x, y int) uint8 { return 0 })
	ds, err := MakeBlend(base, overlay, "multiply", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	if !ds.swapped {
		t.Error("expected base/overlay to be swapped when base has fewer bands for a commutative operator")
	}
	if ds.Bands() != 3 {
		t.Errorf("Bands() = %d, want 3 after swap", ds.Bands())
	}
}

func TestRasterIOSrcOverOpaqueWholeImage(t *testing.T) {
	base := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 {
		if b == 3 {
			return 255
		}
		return 10
	})
	overlay := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 {
		if b == 3 {
			return 255
		}
		return 200
	})
	ds, err := MakeBlend(base, overlay, "src-over", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	dst := make([]uint8, 4*2*2)
	if err := ds.RasterIO(0, 0, 2, 2, dst, 2, 2, nil, ResamplingNearest, NoProgress); err != nil {
		t.Fatalf("RasterIO: %v", err)
	}
	// Band-planar: band 0 (R) occupies dst[0:4], all should be overlay's 200.
	for i := 0; i < 4; i++ {
		if dst[i] != 200 {
			t.Errorf("R plane[%d] = %d, want 200 (opaque overlay wins)", i, dst[i])
		}
	}
	// Alpha plane (band 3) at offset 3*4.
	for i := 0; i < 4; i++ {
		if dst[3*4+i] != 255 {
			t.Errorf("A plane[%d] = %d, want 255", i, dst[3*4+i])
		}
	}
}

func TestRasterIOAbortsOnProgressFalse(t *testing.T) {
	base := newFakeRaster(4, 4, 4, func(b, x, y int) uint8 { return 10 })
	overlay := newFakeRaster(4, 4, 4, func(b, x, y int) uint8 { return 20 })
	ds, err := MakeBlend(base, overlay, "src-over", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	dst := make([]uint8, 4*4*4)
	err = ds.RasterIO(0, 0, 4, 4, dst, 4, 4, nil, ResamplingNearest, func(float64) bool { return false })
	if err != ErrAborted {
		t.Fatalf("RasterIO error = %v, want ErrAborted", err)
	}
}

func TestMakeBlendAcceptsSingleBandHSVValueOverlay(t *testing.T) {
	base := newFakeRaster(2, 2, 3, func(b, x, y int) uint8 { return 100 })
	overlay := newFakeRaster(2, 2, 1, func(b, x, y int) uint8 { return 200 })
	if _, err := MakeBlend(base, overlay, "hsv-value", 100); err != nil {
		t.Fatalf("MakeBlend with single-band HSV-Value overlay: %v", err)
	}
}

func TestMakeBlendRejectsMultiBandHSVValueOverlay(t *testing.T) {
	base := newFakeRaster(2, 2, 3, func(b, x, y int) uint8 { return 100 })
	overlay := newFakeRaster(2, 2, 3, func(b, x, y int) uint8 { return 200 })
	if _, err := MakeBlend(base, overlay, "hsv-value", 100); err == nil {
		t.Fatal("expected error for multi-band HSV-Value overlay")
	}
}

func TestMakeBlendRejectsOverlayWithTooManyBands(t *testing.T) {
	base := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 5, func(b, x, y int) uint8 { return 0 })
	if _, err := MakeBlend(base, overlay, "src-over", 100); err == nil {
		t.Fatal("expected error for overlay with more than 4 bands")
	}
}

func TestBlendDatasetColorInterp(t *testing.T) {
	base := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	overlay := newFakeRaster(2, 2, 4, func(b, x, y int) uint8 { return 0 })
	ds, err := MakeBlend(base, overlay, "src-over", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	want := []ColorInterp{ColorInterpRed, ColorInterpGreen, ColorInterpBlue, ColorInterpAlpha}
	for i, w := range want {
		if got := ds.ColorInterp(i + 1); got != w {
			t.Errorf("ColorInterp(%d) = %v, want %v", i+1, got, w)
		}
	}

	gray := newFakeRaster(2, 2, 1, func(b, x, y int) uint8 { return 0 })
	grayOverlay := newFakeRaster(2, 2, 1, func(b, x, y int) uint8 { return 0 })
	grayDS, err := MakeBlend(gray, grayOverlay, "multiply", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	if got := grayDS.ColorInterp(1); got != ColorInterpGray {
		t.Errorf("ColorInterp(1) on 1-band output = %v, want Gray", got)
	}
}

func TestOverviewDelegation(t *testing.T) {
	full := newFakeRaster(4, 4, 4, func(b, x, y int) uint8 { return 10 })
	// Overview alpha is opaque so SRC-OVER returns the overview color as is.
	opaque99 := func(b, x, y int) uint8 {
		if b == 3 {
			return 255
		}
		return 99
	}
	half := newFakeRaster(2, 2, 4, opaque99)
	full.overviews = []*fakeRaster{half}

	overlayFull := newFakeRaster(4, 4, 4, func(b, x, y int) uint8 { return 10 })
	overlayHalf := newFakeRaster(2, 2, 4, opaque99)
	overlayFull.overviews = []*fakeRaster{overlayHalf}

	ds, err := MakeBlend(full, overlayFull, "src-over", 100)
	if err != nil {
		t.Fatalf("MakeBlend: %v", err)
	}
	if ds.OverviewCount() != 1 {
		t.Fatalf("OverviewCount() = %d, want 1", ds.OverviewCount())
	}

	dst := make([]uint8, 4*2*2)
	if err := ds.RasterIO(0, 0, 4, 4, dst, 2, 2, nil, ResamplingNearest, NoProgress); err != nil {
		t.Fatalf("RasterIO: %v", err)
	}
	for i := 0; i < 4; i++ {
		if dst[i] != 99 {
			t.Errorf("expected overview-delegated value 99, got %d at %d", dst[i], i)
		}
	}
}
