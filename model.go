package typist

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/typistry/typist/fontutil"
	"github.com/typistry/typist/imageutil"
)

// Model holds one conversion: the resized source image, the character set,
// the font, and the grid geometry derived from them. A model is built once
// per image and is safe to convert from a single goroutine; the conversion
// itself fans out internally.
type Model struct {
	cfg        Config
	img        *imageutil.RGBAImage
	characters []rune
	font       *fontutil.Font
	columns    int
	rows       int
	cache      *matchCache
}

// NewModel prepares a conversion of img using the given character set and
// font. The image is resized up front so that every output character
// covers one CellSize x CellSize tile: the width becomes CellSize*Columns
// and the height follows the aspect ratio, truncated to whole pixels. The
// row count is the number of whole cell rows that fit in the resized
// height.
func NewModel(img *imageutil.RGBAImage, characters []rune, fnt *fontutil.Font, opts ...Option) (*Model, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Columns <= 0 {
		return nil, fmt.Errorf("columns must be positive, got %d", cfg.Columns)
	}
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return nil, errors.New("source image is empty")
	}
	if fnt == nil {
		return nil, errors.New("font is required")
	}

	cell := cfg.CellSize()
	width := cell * cfg.Columns
	height := img.Height() * width / img.Width()
	resized := imageutil.Resize(img, width, height, cfg.Filter)

	m := &Model{
		cfg:        cfg,
		img:        resized,
		characters: characters,
		font:       fnt,
		columns:    cfg.Columns,
		rows:       height / cell,
	}
	if cfg.cacheEnabled {
		m.cache = newMatchCache(cfg.cacheDistance)
	}

	slog.Info("prepared conversion model",
		"width", width,
		"height", height,
		"cell", cell,
		"columns", m.columns,
		"rows", m.rows,
		"characters", len(characters))
	return m, nil
}

// Columns returns the number of characters per output row.
func (m *Model) Columns() int {
	return m.columns
}

// Rows returns the number of output rows.
func (m *Model) Rows() int {
	return m.rows
}

// CacheStats reports the hit and miss counts of the approximate match
// cache. Both are zero when the cache is disabled.
func (m *Model) CacheStats() (hits, misses int) {
	if m.cache == nil {
		return 0, 0
	}
	return m.cache.stats()
}

// Convert runs the full pipeline: fingerprint the typeset, fingerprint the
// image tiles, match every tile against the palette, and assemble the
// output rows top to bottom.
func (m *Model) Convert() ([]string, error) {
	palette, err := m.typesetElements()
	if err != nil {
		return nil, err
	}
	tiles, err := m.pictureElements()
	if err != nil {
		return nil, err
	}

	matched := m.matchTiles(tiles, palette)
	out := m.assemble(matched)

	slog.Info("converted image to typist art", "rows", m.rows, "columns", m.columns)
	if m.cache != nil {
		hits, misses := m.cache.stats()
		slog.Info("match cache", "hits", hits, "misses", misses)
	}
	return out, nil
}

// typesetElements rasterizes the character set into the palette: one
// normalized element per character, sorted by ascending luminance. The
// sort is stable, so characters of equal brightness keep their typeset
// order.
func (m *Model) typesetElements() ([]Element, error) {
	n := len(m.characters)
	if n == 0 {
		return nil, nil
	}

	cell := m.cfg.CellSize()
	workers := m.cfg.workers()
	elements := make([]Element, n)
	errs := make([]error, n)

	// Faces keep rasterization state, so every worker builds its own.
	forEachRange(n, workers, func(lo, hi int) {
		face, err := m.font.Face(m.cfg.Scale, fontDPI)
		if err != nil {
			errs[lo] = err
			return
		}
		defer face.Close()
		for i := lo; i < hi; i++ {
			elements[i], errs[i] = ElementFromGlyph(face, m.characters[i], cell, m.cfg.Sentinel)
		}
	})
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("rasterizing typeset: %w", err)
	}

	min, max := luminanceRange(elements)
	slog.Debug("typeset luminance range", "min", min, "max", max)
	forEachRange(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			elements[i] = elements[i].normalized(min, max)
		}
	})

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].luminance < elements[j].luminance
	})
	return elements, nil
}

// pictureElements crops the resized image into the cell grid and
// fingerprints every tile, row-major, then normalizes the collection.
func (m *Model) pictureElements() ([]Element, error) {
	n := m.columns * m.rows
	if n == 0 {
		return nil, nil
	}

	cell := m.cfg.CellSize()
	workers := m.cfg.workers()
	elements := make([]Element, n)
	errs := make([]error, n)

	forEachRange(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x := (i % m.columns) * cell
			y := (i / m.columns) * cell
			elements[i], errs[i] = ElementFromImage(m.img.Crop(x, y, cell, cell))
		}
	})
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("fingerprinting tiles: %w", err)
	}

	min, max := luminanceRange(elements)
	slog.Debug("tile luminance range", "min", min, "max", max)
	forEachRange(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			elements[i] = elements[i].normalized(min, max)
		}
	})
	return elements, nil
}

// matchTiles resolves every tile to its output character. Tiles are
// independent, so the search fans out over disjoint slices of the result.
func (m *Model) matchTiles(tiles, palette []Element) []rune {
	matched := make([]rune, len(tiles))
	forEachRange(len(tiles), m.cfg.workers(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			matched[i] = m.matchRune(tiles[i], palette)
		}
	})
	return matched
}

// matchRune picks the character for one tile. Tiles that match nothing,
// and matches without a character identity, fall back to the sentinel.
func (m *Model) matchRune(tile Element, palette []Element) rune {
	idx, ok := m.searchCached(tile, palette)
	if !ok {
		return m.cfg.Sentinel
	}
	if char, ok := palette[idx].Character(); ok {
		return char
	}
	return m.cfg.Sentinel
}

// searchCached consults the approximate match cache before running the
// full search. Only tiles that carry their source image are cacheable.
func (m *Model) searchCached(tile Element, palette []Element) (int, bool) {
	if m.cache == nil || tile.Image() == nil {
		return SearchTypeset(tile, palette)
	}
	hash := tileHash(tile.Image())
	if hash == nil {
		return SearchTypeset(tile, palette)
	}
	if idx, ok := m.cache.lookup(hash); ok {
		return idx, true
	}
	idx, ok := SearchTypeset(tile, palette)
	if ok {
		m.cache.store(hash, idx)
	}
	return idx, ok
}

// assemble joins the matched characters into output rows, top to bottom.
func (m *Model) assemble(matched []rune) []string {
	out := make([]string, 0, m.rows)
	for r := 0; r < m.rows; r++ {
		out = append(out, string(matched[r*m.columns:(r+1)*m.columns]))
	}
	return out
}

// SearchTypeset returns the index of the palette element that best matches
// the tile. The palette must be sorted by ascending luminance and share
// the tile's normalization scale. The search narrows by brightness first:
// a binary search finds the element closest in luminance, then the Pearson
// correlation is maximized over a window of up to numCandidates elements
// around it. The second result is false only when the palette is empty.
func SearchTypeset(tile Element, palette []Element) (int, bool) {
	if len(palette) == 0 {
		return 0, false
	}

	idx := closestLuminanceIndex(tile.luminance, palette)
	from := idx - numCandidates/2
	if from < 0 {
		from = 0
	}
	to := from + numCandidates
	if to > len(palette) {
		to = len(palette)
	}
	if from >= to {
		return idx, true
	}

	best, ok := bestMatchIndex(tile, palette[from:to])
	if !ok {
		return idx, true
	}
	return from + best, true
}

// closestLuminanceIndex locates the palette element nearest the target
// luminance by binary search. An exact hit returns the leftmost equal
// element; between two neighbors the closer one wins, and an exact
// midpoint keeps the darker neighbor. The palette must be non-empty and
// sorted ascending.
func closestLuminanceIndex(target float64, palette []Element) int {
	i := sort.Search(len(palette), func(j int) bool {
		return palette[j].luminance >= target
	})
	if i == 0 {
		return 0
	}
	if i >= len(palette) {
		return len(palette) - 1
	}
	if target-palette[i-1].luminance <= palette[i].luminance-target {
		return i - 1
	}
	return i
}

// bestMatchIndex picks the candidate whose characteristics correlate most
// strongly with the target's. Candidates with an undefined correlation are
// skipped; among equal scores the first wins. The second result is false
// when no candidate has a defined correlation.
func bestMatchIndex(target Element, candidates []Element) (int, bool) {
	best := -1
	bestScore := math.Inf(-1)
	for i := range candidates {
		score, ok := Correlation(target.characteristics, candidates[i].characteristics)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// forEachRange splits [0, n) into contiguous chunks, one per worker, and
// runs fn with each chunk's half-open bounds on its own goroutine. It
// returns after every chunk completes. Workers write only to their own
// index range, so no synchronization beyond the final barrier is needed.
func forEachRange(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
