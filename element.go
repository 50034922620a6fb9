package typist

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/math/fixed"

	"github.com/typistry/typist/fontutil"
	"github.com/typistry/typist/imageutil"
)

// Sentinel errors reported by element construction and normalization.
var (
	// ErrGlyphNotFound reports a character whose glyph is absent from
	// the font or rasterizes to an empty outline.
	ErrGlyphNotFound = errors.New("glyph not found")

	// ErrEmptyTile reports an image tile with a zero dimension.
	ErrEmptyTile = errors.New("empty tile")

	// ErrInvalidRange reports a normalization range whose minimum
	// exceeds its maximum.
	ErrInvalidRange = errors.New("invalid luminance range")
)

// Element is the unit fingerprint the matching engine compares: a raster
// scan of per-pixel brightness values in [0, 1] plus their mean. An
// element describes either one character of the typeset or one tile of the
// source image. Elements are treated as immutable once built; comparisons
// never modify them.
type Element struct {
	characteristics []float64
	luminance       float64
	character       rune
	hasChar         bool
	image           *imageutil.RGBAImage
}

// NewElement builds an element from raw characteristics and their mean
// luminance. The slice is retained, not copied.
func NewElement(characteristics []float64, luminance float64) Element {
	return Element{characteristics: characteristics, luminance: luminance}
}

// NewGlyphElement builds an element that carries a character identity.
func NewGlyphElement(characteristics []float64, luminance float64, char rune) Element {
	return Element{
		characteristics: characteristics,
		luminance:       luminance,
		character:       char,
		hasChar:         true,
	}
}

// blankElement is the fingerprint of a fully background cell. It stands in
// for the sentinel character, whose glyph has no outline to rasterize.
func blankElement(sentinel rune, size int) Element {
	characteristics := make([]float64, size)
	for i := range characteristics {
		characteristics[i] = 1.0
	}
	return Element{
		characteristics: characteristics,
		luminance:       1.0,
		character:       sentinel,
		hasChar:         true,
	}
}

// ElementFromGlyph rasterizes one character into a cellSize x cellSize
// fingerprint. The glyph's bounding box is centered on the cell, coverage
// is inverted so that 1 means background and 0 means full ink, and the
// luminance is the mean over the whole cell including the uncovered
// margin.
//
// A character without an outline is only acceptable when it is the
// sentinel, which yields the all-background fingerprint. Any other
// outline-less character is an error wrapping ErrGlyphNotFound.
func ElementFromGlyph(face *fontutil.Face, char rune, cellSize int, sentinel rune) (Element, error) {
	if cellSize <= 0 {
		return Element{}, fmt.Errorf("cell size must be positive, got %d", cellSize)
	}
	size := cellSize * cellSize

	var (
		bounds image.Rectangle
		mask   image.Image
		maskp  image.Point
		ok     bool
	)
	if face.HasGlyph(char) {
		bounds, mask, maskp, _, ok = face.Glyph(fixed.Point26_6{}, char)
	}
	if !ok || bounds.Empty() {
		if char == sentinel {
			return blankElement(sentinel, size), nil
		}
		return Element{}, fmt.Errorf("character %q has no outline: %w", char, ErrGlyphNotFound)
	}

	characteristics := make([]float64, size)
	for i := range characteristics {
		characteristics[i] = 1.0
	}

	left := (cellSize - bounds.Dx()) / 2
	top := (cellSize - bounds.Dy()) / 2
	for gy := 0; gy < bounds.Dy(); gy++ {
		cy := top + gy
		if cy < 0 || cy >= cellSize {
			continue
		}
		for gx := 0; gx < bounds.Dx(); gx++ {
			cx := left + gx
			if cx < 0 || cx >= cellSize {
				continue
			}
			_, _, _, alpha := mask.At(maskp.X+gx, maskp.Y+gy).RGBA()
			characteristics[cy*cellSize+cx] = 1.0 - float64(alpha)/0xffff
		}
	}

	var sum float64
	for _, v := range characteristics {
		sum += v
	}
	luminance := sum / float64(size)

	slog.Debug("rasterized glyph",
		"char", string(char),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"luminance", luminance)

	return Element{
		characteristics: characteristics,
		luminance:       luminance,
		character:       char,
		hasChar:         true,
	}, nil
}

// ElementFromImage fingerprints one image tile. Pixels are scanned in
// raster order, each contributing its BT.601 luma, and the element keeps a
// reference to the tile for hashing. A tile with a zero dimension is an
// error wrapping ErrEmptyTile.
func ElementFromImage(tile *imageutil.RGBAImage) (Element, error) {
	w, h := tile.Width(), tile.Height()
	if w == 0 || h == 0 {
		return Element{}, fmt.Errorf("tile is %dx%d: %w", w, h, ErrEmptyTile)
	}

	characteristics := make([]float64, 0, w*h)
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := tile.GetRGB(x, y)
			lum := Luminance(c.R, c.G, c.B, 0xff)
			characteristics = append(characteristics, lum)
			sum += lum
		}
	}

	return Element{
		characteristics: characteristics,
		luminance:       sum / float64(w*h),
		image:           tile,
	}, nil
}

// Characteristics returns the element's per-pixel brightness values in
// raster order. The slice is shared; callers must not modify it.
func (e Element) Characteristics() []float64 {
	return e.characteristics
}

// Luminance returns the mean brightness of the element.
func (e Element) Luminance() float64 {
	return e.luminance
}

// Character returns the character this element was rasterized from, and
// whether it has one. Tile elements have none.
func (e Element) Character() (rune, bool) {
	return e.character, e.hasChar
}

// Image returns the source tile of an image element, or nil for glyph
// elements.
func (e Element) Image() *imageutil.RGBAImage {
	return e.image
}

// Normalized returns a copy of the element rescaled so that the given
// luminance range maps onto [0, 1]. A range whose minimum exceeds its
// maximum is an error wrapping ErrInvalidRange. A range narrower than the
// floating-point tolerance maps every value to zero.
func (e Element) Normalized(min, max float64) (Element, error) {
	if min > max {
		return Element{}, fmt.Errorf("luminance range [%v, %v]: %w", min, max, ErrInvalidRange)
	}
	return e.normalized(min, max), nil
}

func (e Element) normalized(min, max float64) Element {
	characteristics := make([]float64, len(e.characteristics))
	for i, v := range e.characteristics {
		characteristics[i] = normalizeValue(v, min, max)
	}
	return Element{
		characteristics: characteristics,
		luminance:       normalizeValue(e.luminance, min, max),
		character:       e.character,
		hasChar:         e.hasChar,
		image:           e.image,
	}
}

func normalizeValue(v, min, max float64) float64 {
	if max-min < almostZero {
		return 0
	}
	return (v - min) / (max - min)
}

// luminanceRange reports the smallest and largest mean luminance across
// the elements. An empty slice yields (+Inf, -Inf).
func luminanceRange(elements []Element) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for i := range elements {
		l := elements[i].luminance
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return min, max
}

// NormalizeElements rescales every element against the collection-wide
// luminance range, in place. Normalizing an already normalized collection
// leaves it unchanged. An empty collection is a no-op.
func NormalizeElements(elements []Element) {
	if len(elements) == 0 {
		return
	}
	min, max := luminanceRange(elements)
	for i := range elements {
		elements[i] = elements[i].normalized(min, max)
	}
}
