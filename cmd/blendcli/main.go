// Command blendcli drives Core A's blend engine against synthetic
// generated rasters (a checkerboard base, a radial-gradient overlay),
// writing the result as a PNG — a demonstration harness only, since a
// concrete RasterSource backed by a real file format is outside Core
// A's scope (spec.md §1). Grounded on cmd/geotiff2pmtiles/main.go's
// flag layout and verbose-gated logging.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/pspoerri/rastermvt/internal/blend"
)

func main() {
	var (
		operator string
		opacity  int
		width    int
		height   int
		output   string
		verbose  bool
	)
	flag.StringVar(&operator, "op", "src-over", "Blend operator: src-over, hsv-value, multiply, screen, overlay, hard-light, darken, lighten, color-burn, color-dodge")
	flag.IntVar(&opacity, "opacity", 100, "Opacity percentage 0-100")
	flag.IntVar(&width, "width", 256, "Output width")
	flag.IntVar(&height, "height", 256, "Output height")
	flag.StringVar(&output, "o", "blend.png", "Output PNG path")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blendcli [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Blends a synthetic checkerboard base against a synthetic gradient\n")
		fmt.Fprintf(os.Stderr, "overlay and writes the result as a PNG.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	base := newCheckerboard(width, height)
	overlay := newRadialGradient(width, height)

	ds, err := blend.MakeBlend(base, overlay, operator, opacity)
	if err != nil {
		log.Fatalf("make_blend: %v", err)
	}

	bands := ds.Bands()
	buf := make([]uint8, bands*width*height)

	var progress blend.ProgressFunc = blend.NoProgress
	var bar *blend.TerminalProgress
	if verbose {
		bar = blend.NewTerminalProgress(output)
		progress = bar.Report
	}

	if err := ds.RasterIO(0, 0, width, height, buf, width, height, nil, blend.ResamplingNearest, progress); err != nil {
		log.Fatalf("raster_io: %v", err)
	}
	if bar != nil {
		bar.Finish()
	}

	img := planarToImage(buf, width, height, bands)
	f, err := os.Create(output)
	if err != nil {
		log.Fatalf("creating %s: %v", output, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("encoding PNG: %v", err)
	}
	if verbose {
		log.Printf("wrote %s (%dx%d, %d bands, operator=%s, opacity=%d%%)", output, width, height, bands, operator, opacity)
	}
}

// planarToImage expands a band-planar buffer (spec §3 band-planar
// layout) into a standard library image.NRGBA for PNG encoding.
func planarToImage(buf []uint8, width, height, bands int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	windowPixels := width * height
	for i := 0; i < windowPixels; i++ {
		x, y := i%width, i/width
		var r, g, b, a uint8
		switch bands {
		case 1:
			r, g, b, a = buf[i], buf[i], buf[i], 255
		case 2:
			r, g, b, a = buf[i], buf[i], buf[i], buf[windowPixels+i]
		case 3:
			r, g, b, a = buf[i], buf[windowPixels+i], buf[2*windowPixels+i], 255
		default:
			r, g, b, a = buf[i], buf[windowPixels+i], buf[2*windowPixels+i], buf[3*windowPixels+i]
		}
		img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
	}
	return img
}

// syntheticRaster is an in-memory blend.RasterSource over a fixed-size
// band-planar buffer generated by a per-pixel fill function; it carries
// no overviews.
type syntheticRaster struct {
	width, height, bands int
	buf                  []uint8
}

func newSyntheticRaster(width, height, bands int, fill func(band, x, y int) uint8) *syntheticRaster {
	buf := make([]uint8, bands*width*height)
	windowPixels := width * height
	for band := 0; band < bands; band++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf[band*windowPixels+y*width+x] = fill(band, x, y)
			}
		}
	}
	return &syntheticRaster{width: width, height: height, bands: bands, buf: buf}
}

func (r *syntheticRaster) Width() int  { return r.width }
func (r *syntheticRaster) Height() int { return r.height }
func (r *syntheticRaster) Bands() int  { return r.bands }

func (r *syntheticRaster) ReadPixels(xoff, yoff, xsize, ysize, bufxsize, bufysize int, resampling blend.Resampling, dst []uint8) error {
	windowPixels := bufxsize * bufysize
	for band := 0; band < r.bands; band++ {
		for y := 0; y < bufysize; y++ {
			srcY := yoff + y*ysize/bufysize
			for x := 0; x < bufxsize; x++ {
				srcX := xoff + x*xsize/bufxsize
				dst[band*windowPixels+y*bufxsize+x] = r.buf[band*r.width*r.height+srcY*r.width+srcX]
			}
		}
	}
	return nil
}

func (r *syntheticRaster) OverviewCount() int          { return 0 }
func (r *syntheticRaster) Overview(i int) blend.RasterSource { return nil }

func newCheckerboard(width, height int) *syntheticRaster {
	return newSyntheticRaster(width, height, 4, func(band, x, y int) uint8 {
		if band == 3 {
			return 255
		}
		if ((x/16)+(y/16))%2 == 0 {
			return 220
		}
		return 40
	})
}

func newRadialGradient(width, height int) *syntheticRaster {
	cx, cy := width/2, height/2
	maxDist := float64(cx)
	if cy > cx {
		maxDist = float64(cy)
	}
	return newSyntheticRaster(width, height, 4, func(band, x, y int) uint8 {
		dx, dy := float64(x-cx), float64(y-cy)
		dist := dx*dx + dy*dy
		frac := dist / (maxDist * maxDist)
		if frac > 1 {
			frac = 1
		}
		switch band {
		case 0:
			return uint8(255 * (1 - frac))
		case 1:
			return uint8(128 * frac)
		case 2:
			return uint8(255 * frac)
		default:
			return 255
		}
	})
}
