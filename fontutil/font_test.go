package fontutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

func TestLoadTrueType(t *testing.T) {
	fnt, err := Load(goregular.TTF)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	face, err := fnt.Face(16, 72)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	defer face.Close()

	if !face.HasGlyph('A') {
		t.Error("Expected 'A' to be present")
	}
	if face.HasGlyph('\ue000') {
		t.Error("Expected a private use rune to be absent")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load([]byte("not a font")); err == nil {
		t.Error("Expected an error for junk data")
	}
	if _, err := Load([]byte("OTTOjunk")); err == nil {
		t.Error("Expected an error for junk OpenType data")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("Writing test font failed: %v", err)
	}

	fnt, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	face, err := fnt.Face(16, 72)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	face.Close()
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestDefaultIsCached(t *testing.T) {
	if Default() != Default() {
		t.Error("Expected Default to return the same font")
	}
	face, err := Default().Face(16, 72)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	defer face.Close()
	if !face.HasGlyph('A') {
		t.Error("Expected the default font to cover ASCII")
	}
}

func TestGlyphOutlines(t *testing.T) {
	face, err := Default().Face(16, 72)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	defer face.Close()

	bounds, _, _, _, ok := face.Glyph(fixed.Point26_6{}, 'A')
	if !ok || bounds.Empty() {
		t.Error("Expected a drawable outline for 'A'")
	}

	// The space maps to a glyph but rasterizes to nothing.
	if !face.HasGlyph(' ') {
		t.Fatal("Expected the space to have a glyph")
	}
	bounds, _, _, _, ok = face.Glyph(fixed.Point26_6{}, ' ')
	if ok && !bounds.Empty() {
		t.Error("Expected the space to have no outline")
	}
}
