// Package typist converts raster images into typist art: a fixed grid of
// characters, drawn from a caller-supplied character set, where each
// character approximates both the brightness and the structure of one
// square tile of the source image.
//
// The conversion rasterizes every character of the set into a small
// fingerprint, fingerprints every image tile the same way, and then picks
// the best character per tile with a two-stage search: a binary search over
// the brightness-sorted character palette followed by a Pearson-correlation
// comparison across a small candidate window.
package typist

import (
	_ "embed"
	"runtime"

	"github.com/typistry/typist/imageutil"
)

const (
	// almostZero is the threshold below which floating-point values are
	// treated as equal.
	almostZero = 1e-12

	// numCandidates is the width of the fine-search window centered on
	// the coarse luminance match.
	numCandidates = 16

	// fontDPI is the resolution glyphs are rasterized at.
	fontDPI = 72
)

// FullWidthSpace is the default sentinel character. It stands in for tiles
// that match nothing and is the one outline-less glyph the palette accepts.
const FullWidthSpace = '　'

// Default cell geometry. A cell is FontSize + 2*Margin pixels on a side and
// glyph outlines are rasterized at Scale pixels inside it.
const (
	DefaultFontSize = 18
	DefaultMargin   = 1
	DefaultScale    = 16.0
	DefaultColumns  = 80
)

//go:embed assets/typeset.txt
var defaultTypeset string

// DefaultTypeset returns the embedded character set with line breaks
// stripped. The set is ordered roughly dark to light but the engine sorts
// by measured luminance regardless.
func DefaultTypeset() []rune {
	chars := make([]rune, 0, len(defaultTypeset))
	for _, r := range defaultTypeset {
		if r == '\n' || r == '\r' {
			continue
		}
		chars = append(chars, r)
	}
	return chars
}

// Config carries the knobs the conversion engine consumes. Construct one
// through DefaultConfig or let NewModel apply Options on top of the
// defaults.
type Config struct {
	// Columns is the number of characters per output row.
	Columns int

	// FontSize and Margin define the square cell geometry. The cell edge
	// is FontSize + 2*Margin pixels.
	FontSize int
	Margin   int

	// Scale is the pixel size glyph outlines are rasterized at inside
	// the cell.
	Scale float64

	// Sentinel is the character substituted for unmatched tiles. It is
	// also the only character allowed to rasterize to an empty outline.
	Sentinel rune

	// Filter selects the resampling filter for the initial resize.
	Filter imageutil.Interpolation

	// Workers bounds the per-stage parallelism. Zero means one worker
	// per CPU.
	Workers int

	cacheEnabled  bool
	cacheDistance int
}

// DefaultConfig returns the configuration the command-line tool ships with.
func DefaultConfig() Config {
	return Config{
		Columns:  DefaultColumns,
		FontSize: DefaultFontSize,
		Margin:   DefaultMargin,
		Scale:    DefaultScale,
		Sentinel: FullWidthSpace,
		Filter:   imageutil.InterpolationTriangle,
	}
}

// CellSize returns the pixel edge length of the square glyph and tile cell.
func (c Config) CellSize() int {
	return c.FontSize + 2*c.Margin
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Option adjusts a Config at model construction time.
type Option func(*Config)

// WithColumns sets the number of characters per output row.
func WithColumns(n int) Option {
	return func(c *Config) { c.Columns = n }
}

// WithFontSize sets the glyph point size the cell is built around.
func WithFontSize(size int) Option {
	return func(c *Config) { c.FontSize = size }
}

// WithMargin sets the pixel margin added on every side of a glyph cell.
func WithMargin(margin int) Option {
	return func(c *Config) { c.Margin = margin }
}

// WithScale sets the rasterization scale for glyph outlines.
func WithScale(scale float64) Option {
	return func(c *Config) { c.Scale = scale }
}

// WithSentinel sets the character used for unmatched tiles and accepted as
// the blank glyph.
func WithSentinel(r rune) Option {
	return func(c *Config) { c.Sentinel = r }
}

// WithFilter sets the resampling filter used when the source image is
// scaled to the character grid.
func WithFilter(filter imageutil.Interpolation) Option {
	return func(c *Config) { c.Filter = filter }
}

// WithWorkers caps the number of goroutines each conversion stage fans out
// to. Values below one restore the default of one worker per CPU.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithMatchCache enables the approximate tile match cache. Tiles whose
// perceptual hash is within maxDistance bits of an earlier tile reuse that
// tile's match instead of running the search again. A distance of zero
// still collapses exact duplicates, which are common in flat image
// regions.
func WithMatchCache(maxDistance int) Option {
	return func(c *Config) {
		c.cacheEnabled = true
		if maxDistance < 0 {
			maxDistance = 0
		}
		c.cacheDistance = maxDistance
	}
}
