package blend

import (
	"fmt"
)

// BlendDataset composites a base and an overlay RasterSource under a
// single fixed operator and opacity, chosen once at make_blend time and
// immutable afterward (spec §3, §4.1). It is itself a RasterSource, so a
// BlendDataset can be layered as the base or overlay of another blend.
type BlendDataset struct {
	base, overlay RasterSource
	op            Operator
	opacity       uint8
	swapped       bool
	outBands      int

	width, height int

	cache IoCache

	overviews      []*BlendDataset
	overviewsBuilt bool
}

var _ RasterSource = (*BlendDataset)(nil)

func (d *BlendDataset) Width() int  { return d.width }
func (d *BlendDataset) Height() int { return d.height }
func (d *BlendDataset) Bands() int  { return d.outBands }

// ColorInterp reports the color interpretation of the given 1-based
// output band (spec.md:188, "band_color_interp"): grayscale for band 1 of
// a <=2-band output, alpha for a 2-band output's second band or any
// 4-band output's fourth band, otherwise red/green/blue in order.
func (d *BlendDataset) ColorInterp(band int) ColorInterp {
	if band < 1 || band > d.outBands {
		return ColorInterpUndefined
	}
	return bandColorInterp(band, d.outBands)
}

// OverviewCount returns the number of overview levels shared by base and
// overlay (spec §4.3): overviews exist only when both sides expose the
// same count, built lazily on first access.
func (d *BlendDataset) OverviewCount() int {
	d.buildOverviews()
	return len(d.overviews)
}

func (d *BlendDataset) Overview(i int) RasterSource {
	d.buildOverviews()
	if i < 0 || i >= len(d.overviews) {
		return nil
	}
	return d.overviews[i]
}

func (d *BlendDataset) buildOverviews() {
	if d.overviewsBuilt {
		return
	}
	d.overviewsBuilt = true

	n := d.base.OverviewCount()
	if d.overlay.OverviewCount() != n || n == 0 {
		return
	}
	overviews := make([]*BlendDataset, 0, n)
	for i := 0; i < n; i++ {
		baseOv := d.base.Overview(i)
		overviews = append(overviews, &BlendDataset{
			base:     baseOv,
			overlay:  d.overlay.Overview(i),
			op:       d.op,
			opacity:  d.opacity,
			swapped:  d.swapped,
			outBands: d.outBands,
			width:    baseOv.Width(),
			height:   baseOv.Height(),
		})
	}
	d.overviews = overviews
}

// ReadPixels implements RasterSource so a BlendDataset can itself serve
// as base or overlay for another blend; it is a thin wrapper over
// RasterIO with the natural band order and no progress reporting.
func (d *BlendDataset) ReadPixels(xoff, yoff, xsize, ysize, bufxsize, bufysize int, resampling Resampling, dst []uint8) error {
	return d.RasterIO(xoff, yoff, xsize, ysize, dst, bufxsize, bufysize, nil, resampling, NoProgress)
}

// windowPlanes is the set of per-channel Plane views into one cached
// band-planar raster_io buffer, already offset past whatever bands
// precede this raster in the buffer.
type windowPlanes struct {
	r, g, b, a Plane
}

// bandPlanes builds windowPlanes for a bandCount-band raster whose data
// starts at buf[0] and spans bandCount*windowPixels bytes, following
// spec §3's layout rule: band 1 is red (or gray/value), bands 2-3 are
// green/blue when bandCount is 3 or 4, and the last band is alpha when
// bandCount is 2 or 4.
func bandPlanes(buf []uint8, bandCount, windowPixels int) windowPlanes {
	wp := windowPlanes{r: plane(buf, bandCount, windowPixels, 0)}
	if bandCount == 3 || bandCount == 4 {
		wp.g = plane(buf, bandCount, windowPixels, 1)
		wp.b = plane(buf, bandCount, windowPixels, 2)
	}
	if hasAlphaBand(bandCount) {
		wp.a = plane(buf, bandCount, windowPixels, bandCount-1)
	}
	return wp
}

// RasterIO composites the requested window and writes band-planar output
// into dst (length >= Bands()*bufxsize*bufysize: band 0's
// bufxsize*bufysize samples, then band 1's, ...). bandList, if non-nil,
// selects and orders a subset of 1-based output bands; nil means all
// bands in natural order.
//
// Four dispatch paths are tried, in order (spec §4.4):
//  1. an overview fully covers the requested resolution and the call is
//     delegated to it outright;
//  2. SRC-OVER over two 4-band RGBA sources, the hot path;
//  3. HSV-Value;
//  4. every other operator/band-count combination, via the generic
//     per-operator kernel BlendRow.
func (d *BlendDataset) RasterIO(xoff, yoff, xsize, ysize int, dst []uint8, bufxsize, bufysize int, bandList []int, resampling Resampling, progress ProgressFunc) error {
	if progress == nil {
		progress = NoProgress
	}

	if ov, ok := d.selectOverview(bufxsize, bufysize); ok {
		ovXoff, ovYoff, ovXsize, ovYsize := ov.scaleWindow(d, xoff, yoff, xsize, ysize)
		return ov.ds.RasterIO(ovXoff, ovYoff, ovXsize, ovYsize, dst, bufxsize, bufysize, bandList, resampling, progress)
	}

	key := ioKey{xoff: xoff, yoff: yoff, xsize: xsize, ysize: ysize, bufxsize: bufxsize, bufysize: bufysize, resampling: resampling}
	buf, err := d.cache.fetch(d.base, d.overlay, key)
	if err != nil {
		return err
	}

	windowPixels := bufxsize * bufysize
	baseBands := d.cache.baseBands
	overlayBands := d.cache.overlayBands
	baseWP := bandPlanes(buf, baseBands, windowPixels)
	overlayWP := bandPlanes(buf[baseBands*windowPixels:], overlayBands, windowPixels)

	full, allocErr := safeMakeBytes(d.outBands * windowPixels)
	if allocErr != nil {
		return fmt.Errorf("blend: allocating output buffer: %w", allocErr)
	}

	for y := 0; y < bufysize; y++ {
		rowIn := &RowInputs{
			BaseR: sliceRow(baseWP.r, y, bufxsize), BaseG: sliceRow(baseWP.g, y, bufxsize),
			BaseB: sliceRow(baseWP.b, y, bufxsize), BaseA: sliceRow(baseWP.a, y, bufxsize),
			OverlayR: sliceRow(overlayWP.r, y, bufxsize), OverlayG: sliceRow(overlayWP.g, y, bufxsize),
			OverlayB: sliceRow(overlayWP.b, y, bufxsize), OverlayA: sliceRow(overlayWP.a, y, bufxsize),
			Opacity: d.opacity, SwappedOpacity: d.swapped,
		}
		rowDst := full[y*bufxsize:]

		switch {
		case d.op == SrcOver && baseBands == 4 && overlayBands == 4 && d.outBands == 4:
			BlendRow(SrcOver, rowIn, rowDst, bufxsize, 4, 1, windowPixels)
		case d.op == HSVValue:
			HSVValueRow(rowIn.BaseR, rowIn.BaseG, rowIn.BaseB, rowIn.BaseA, rowIn.OverlayR, rowDst, bufxsize, d.outBands, 1, windowPixels)
		default:
			BlendRow(d.op, rowIn, rowDst, bufxsize, d.outBands, 1, windowPixels)
		}

		if y%32 == 0 || y == bufysize-1 {
			if !progress(float64(y+1) / float64(bufysize)) {
				return ErrAborted
			}
		}
	}

	scatterBands(full, dst, d.outBands, windowPixels, bandList)
	return nil
}

// sliceRow extracts the samples for output row y (0-based, n samples
// wide) from a Plane covering the whole window.
func sliceRow(p Plane, y, n int) Plane {
	if p == nil {
		return nil
	}
	start := y * n
	return p[start : start+n]
}

// scatterBands copies the natural-order band-planar buffer `full`
// (outBands planes of windowPixels samples) into the caller's dst,
// honoring bandList (1-based band indices, nil meaning natural order).
func scatterBands(full, dst []uint8, outBands, windowPixels int, bandList []int) {
	if len(bandList) == 0 {
		copy(dst, full[:outBands*windowPixels])
		return
	}
	for outIdx, band := range bandList {
		srcStart := (band - 1) * windowPixels
		dstStart := outIdx * windowPixels
		copy(dst[dstStart:dstStart+windowPixels], full[srcStart:srcStart+windowPixels])
	}
}

type overviewMatch struct {
	ds *BlendDataset
}

// scaleWindow rescales a full-resolution window into the coordinate
// space of the chosen overview level.
func (m overviewMatch) scaleWindow(full *BlendDataset, xoff, yoff, xsize, ysize int) (int, int, int, int) {
	sx := float64(m.ds.Width()) / float64(full.Width())
	sy := float64(m.ds.Height()) / float64(full.Height())
	return int(float64(xoff) * sx), int(float64(yoff) * sy), int(float64(xsize) * sx), int(float64(ysize) * sy)
}

// selectOverview picks the coarsest overview whose resolution still
// covers the requested bufxsize/bufysize without upsampling (spec §4.3).
func (d *BlendDataset) selectOverview(bufxsize, bufysize int) (overviewMatch, bool) {
	n := d.OverviewCount()
	if n == 0 {
		return overviewMatch{}, false
	}
	if bufxsize >= d.Width() && bufysize >= d.Height() {
		return overviewMatch{}, false
	}

	best := -1
	var bestWidth int
	for i := 0; i < n; i++ {
		ov := d.Overview(i).(*BlendDataset)
		if ov.Width() < bufxsize || ov.Height() < bufysize {
			continue
		}
		if best == -1 || ov.Width() < bestWidth {
			best = i
			bestWidth = ov.Width()
		}
	}
	if best == -1 {
		return overviewMatch{}, false
	}
	return overviewMatch{ds: d.Overview(best).(*BlendDataset)}, true
}
