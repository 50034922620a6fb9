package typist

import (
	"image"
	"image/draw"
	"log/slog"

	"golang.org/x/image/math/fixed"

	"github.com/typistry/typist/fontutil"
)

// RenderImage draws converted rows back into a raster image: black glyphs
// on a white background, one CellSize x CellSize cell per character,
// placed with the same bounding-box centering the matching fingerprints
// were built with. Characters without an outline, the sentinel included,
// leave their cell blank.
func RenderImage(rows []string, fnt *fontutil.Font, cfg Config) (*image.RGBA, error) {
	cell := cfg.CellSize()
	columns := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > columns {
			columns = n
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, columns*cell, len(rows)*cell))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if columns == 0 {
		return dst, nil
	}

	face, err := fnt.Face(cfg.Scale, fontDPI)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	for y, row := range rows {
		for x, char := range []rune(row) {
			drawGlyph(dst, face, char, x*cell, y*cell, cell)
		}
	}

	slog.Debug("rendered art image",
		"width", dst.Bounds().Dx(),
		"height", dst.Bounds().Dy())
	return dst, nil
}

// drawGlyph paints one glyph centered in the cell whose top-left corner is
// (x0, y0), clipped to the cell. Missing and outline-less glyphs leave the
// cell untouched.
func drawGlyph(dst *image.RGBA, face *fontutil.Face, char rune, x0, y0, cell int) {
	if !face.HasGlyph(char) {
		return
	}
	bounds, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, char)
	if !ok || bounds.Empty() {
		return
	}

	left := x0 + (cell-bounds.Dx())/2
	top := y0 + (cell-bounds.Dy())/2
	rect := image.Rect(left, top, left+bounds.Dx(), top+bounds.Dy())

	clipped := rect.Intersect(image.Rect(x0, y0, x0+cell, y0+cell))
	if clipped.Empty() {
		return
	}
	maskp = maskp.Add(clipped.Min.Sub(rect.Min))
	draw.DrawMask(dst, clipped, image.Black, image.Point{}, mask, maskp, draw.Over)
}
