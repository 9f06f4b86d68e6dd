package blend

import (
	"fmt"
	"math"
)

// ioKey identifies one raster_io request window: the source region
// (xoff,yoff,xsize,ysize) and the requested output resolution plus
// resampling algorithm (spec §4.3: "the cache memoizes the most recent
// (xoff, yoff, xsize, ysize, bufxsize, bufysize, resampling) request").
type ioKey struct {
	xoff, yoff, xsize, ysize int
	bufxsize, bufysize       int
	resampling               Resampling
}

// IoCache owns the single band-planar pixel buffer shared by every
// raster_io fast path (spec §4.3). A cache hit on the same key avoids
// re-reading base and overlay entirely; a miss re-reads both into a
// freshly allocated buffer. Once an I/O error or an allocation overflow
// occurs the cache goes sticky: every subsequent fetch fails immediately
// without touching base/overlay again, until the dataset is recreated.
type IoCache struct {
	key   ioKey
	valid bool

	buf []uint8

	baseBands, overlayBands int

	err error
}

// reset clears cache validity without clearing the sticky error — used
// when the underlying dataset configuration changes in a way that
// invalidates any prior key (not currently triggered, since BlendDataset
// is immutable after make_blend, but kept as the single place that must
// be called before any buffer reuse).
func (c *IoCache) reset() {
	c.valid = false
}

// fetch returns the band-planar buffer for key, reading from base and
// overlay on a miss. The returned slice is owned by the cache and is
// invalidated by the next fetch call; callers must finish using it
// before calling fetch again.
func (c *IoCache) fetch(base, overlay RasterSource, key ioKey) ([]uint8, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.valid && c.key == key {
		return c.buf, nil
	}

	if key.bufxsize <= 0 || key.bufysize <= 0 {
		c.err = fmt.Errorf("blend: invalid output size %dx%d", key.bufxsize, key.bufysize)
		c.valid = false
		return nil, c.err
	}

	baseBands := base.Bands()
	overlayBands := overlay.Bands()
	totalBands := baseBands + overlayBands
	windowPixels := key.bufxsize * key.bufysize

	// Guard against overflow the way spec §4.3/§7 requires: reject before
	// allocating rather than let bands*bufxsize*bufysize wrap or exceed
	// what the platform can address.
	if windowPixels <= 0 || totalBands <= 0 {
		c.err = fmt.Errorf("blend: degenerate cache buffer shape (bands=%d, pixels=%d)", totalBands, windowPixels)
		c.valid = false
		return nil, c.err
	}
	maxBands := math.MaxInt / windowPixels
	if totalBands > maxBands {
		c.err = fmt.Errorf("blend: requested buffer (%d bands x %d pixels) overflows addressable size", totalBands, windowPixels)
		c.valid = false
		return nil, c.err
	}

	buf, allocErr := safeMakeBytes(totalBands * windowPixels)
	if allocErr != nil {
		c.err = fmt.Errorf("blend: allocating io buffer: %w", allocErr)
		c.valid = false
		return nil, c.err
	}

	baseLen := baseBands * windowPixels
	if err := base.ReadPixels(key.xoff, key.yoff, key.xsize, key.ysize, key.bufxsize, key.bufysize, key.resampling, buf[:baseLen]); err != nil {
		c.err = fmt.Errorf("blend: reading base raster: %w", err)
		c.valid = false
		return nil, c.err
	}
	if err := overlay.ReadPixels(key.xoff, key.yoff, key.xsize, key.ysize, key.bufxsize, key.bufysize, key.resampling, buf[baseLen:]); err != nil {
		c.err = fmt.Errorf("blend: reading overlay raster: %w", err)
		c.valid = false
		return nil, c.err
	}

	c.buf = buf
	c.key = key
	c.baseBands = baseBands
	c.overlayBands = overlayBands
	c.valid = true
	return buf, nil
}

// safeMakeBytes allocates n bytes, converting the runtime panic raised by
// an absurd slice length (as opposed to genuine process-wide memory
// exhaustion, which Go cannot recover from) into an error.
func safeMakeBytes(n int) (buf []uint8, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("allocation of %d bytes failed: %v", n, r)
		}
	}()
	return make([]uint8, n), nil
}

// plane extracts band index b (0-based) of the cached buffer as a Plane,
// given the buffer's own band count and window pixel count.
func plane(buf []uint8, bandCount, windowPixels, b int) Plane {
	if b < 0 || b >= bandCount {
		return nil
	}
	start := b * windowPixels
	return Plane(buf[start : start+windowPixels])
}
