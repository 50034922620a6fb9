// Package fontutil loads TrueType and OpenType fonts and builds the
// rasterizing faces the conversion engine consumes.
package fontutil

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Font is an immutable in-memory font. TrueType outlines are served by
// freetype, CFF outlines (the "OTTO" flavor of OpenType) by the x/image
// sfnt rasterizer.
type Font struct {
	tt *truetype.Font
	ot *sfnt.Font
}

// Load parses TTF or OTF font data. The format is sniffed from the
// leading table tag.
func Load(data []byte) (*Font, error) {
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenType font: %w", err)
		}
		return &Font{ot: f}, nil
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TrueType font: %w", err)
	}
	return &Font{tt: f}, nil
}

// LoadFile reads and parses a font file.
func LoadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return Load(data)
}

var (
	defaultOnce sync.Once
	defaultFont *Font
)

// Default returns the embedded Go Regular font.
func Default() *Font {
	defaultOnce.Do(func() {
		f, err := Load(goregular.TTF)
		if err != nil {
			panic("fontutil: embedded font: " + err.Error())
		}
		defaultFont = f
	})
	return defaultFont
}

// Face couples a rasterizing font.Face with the glyph presence query the
// engine needs to tell a missing glyph apart from a blank one.
type Face struct {
	font.Face
	fnt *Font
}

// Face builds a face that rasterizes glyphs at the given pixel size and
// resolution. Faces are not safe for concurrent use; build one per
// goroutine and close it when done.
func (f *Font) Face(size, dpi float64) (*Face, error) {
	if f.tt != nil {
		face := truetype.NewFace(f.tt, &truetype.Options{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		return &Face{Face: face, fnt: f}, nil
	}
	face, err := opentype.NewFace(f.ot, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build face: %w", err)
	}
	return &Face{Face: face, fnt: f}, nil
}

// HasGlyph reports whether the font maps r to a real glyph rather than
// the missing-glyph placeholder.
func (f *Face) HasGlyph(r rune) bool {
	if f.fnt.tt != nil {
		return f.fnt.tt.Index(r) != 0
	}
	idx, err := f.fnt.ot.GlyphIndex(nil, r)
	return err == nil && idx != 0
}
