package blend

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ProgressFunc is the caller-provided progress callback threaded through
// raster_io (spec §5): it is invoked periodically with the fraction of
// the operation completed so far, in [0, 1]. Returning false aborts the
// operation; RasterIO then returns ErrAborted.
type ProgressFunc func(complete float64) bool

// ErrAborted is returned by RasterIO when a ProgressFunc returns false.
var ErrAborted = errors.New("blend: aborted by progress callback")

// NoProgress is a ProgressFunc that never aborts, for callers with no
// interest in progress reporting.
func NoProgress(float64) bool { return true }

// TerminalProgress renders an in-place terminal progress bar driven by a
// raster_io call's own progress callbacks; Report is a ProgressFunc.
type TerminalProgress struct {
	label     string
	barWidth  int
	start     time.Time
	lastDraw  time.Time
	minRedraw time.Duration
}

// NewTerminalProgress builds a TerminalProgress for a single raster_io
// invocation labeled for display (e.g. the output file name).
func NewTerminalProgress(label string) *TerminalProgress {
	return &TerminalProgress{
		label:     label,
		barWidth:  30,
		start:     time.Now(),
		minRedraw: 100 * time.Millisecond,
	}
}

// Report is passed as the ProgressFunc to RasterIO.
func (p *TerminalProgress) Report(complete float64) bool {
	now := time.Now()
	if !p.lastDraw.IsZero() && now.Sub(p.lastDraw) < p.minRedraw && complete < 1 {
		return true
	}
	p.lastDraw = now
	p.draw(complete)
	return true
}

// Finish prints the final bar state with a trailing newline.
func (p *TerminalProgress) Finish() {
	p.draw(1)
	fmt.Fprint(os.Stderr, "\n")
}

func (p *TerminalProgress) draw(frac float64) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(float64(p.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.barWidth-filled)
	elapsed := time.Since(p.start)
	fmt.Fprintf(os.Stderr, "\r%s [%s] %3.0f%%  %s\033[K", p.label, bar, frac*100, formatDuration(elapsed))
}

// formatDuration formats a duration concisely (e.g. "1m23s", "45s", "0s").
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
