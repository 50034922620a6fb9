// Command typist converts an image into typist art and types it onto the
// terminal, character by character, the way a typist would.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/typistry/typist"
	"github.com/typistry/typist/fontutil"
	"github.com/typistry/typist/imageutil"
	"github.com/typistry/typist/view"
)

// The CLI accepts a narrower column range than the engine; anything
// outside it is either unreadable or wider than common terminals.
const (
	minColumns = 32
	maxColumns = 128
)

type options struct {
	Image         string `short:"i" long:"image" required:"true" description:"Path of the image to convert"`
	Font          string `short:"f" long:"font" description:"TTF or OTF font file (default: embedded Go Regular)"`
	Typeset       string `short:"t" long:"typeset" description:"File with the characters to type with (default: embedded set)"`
	Output        string `short:"o" long:"out" description:"Write the art to a text file"`
	PNG           string `long:"png" description:"Render the art to a PNG file"`
	Filter        string `long:"filter" default:"triangle" choice:"triangle" choice:"nearest" choice:"bicubic" choice:"lanczos" description:"Resampling filter for the initial resize"`
	Cache         bool   `long:"cache" description:"Reuse matches for perceptually identical tiles"`
	CacheDistance int    `long:"cache-distance" default:"0" description:"Hash distance the cache treats as identical (implies --cache)"`
	Delay         int    `long:"delay" default:"10" description:"Per-character animation delay in milliseconds"`
	NoAnim        bool   `long:"no-anim" description:"Print the art instead of animating it"`
	Verbose       bool   `short:"V" long:"verbose" description:"Enable debug logging"`
	Args          struct {
		Columns int `positional-arg-name:"columns" description:"Characters per output row (32-128)"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		// go-flags already reported the problem.
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "typist:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if opts.Args.Columns < minColumns || opts.Args.Columns > maxColumns {
		return fmt.Errorf("columns must be between %d and %d, got %d",
			minColumns, maxColumns, opts.Args.Columns)
	}

	chars := typist.DefaultTypeset()
	if opts.Typeset != "" {
		data, err := os.ReadFile(opts.Typeset)
		if err != nil {
			return fmt.Errorf("reading typeset: %w", err)
		}
		chars = parseTypeset(string(data))
	}

	fnt := fontutil.Default()
	if opts.Font != "" {
		loaded, err := fontutil.LoadFile(opts.Font)
		if err != nil {
			return err
		}
		fnt = loaded
	}

	img, err := imageutil.LoadImage(opts.Image)
	if err != nil {
		return err
	}

	filter, err := imageutil.ParseInterpolation(opts.Filter)
	if err != nil {
		return err
	}

	modelOpts := []typist.Option{
		typist.WithColumns(opts.Args.Columns),
		typist.WithFilter(filter),
		typist.WithSentinel(pickSentinel(chars)),
	}
	if opts.Cache || opts.CacheDistance > 0 {
		modelOpts = append(modelOpts, typist.WithMatchCache(opts.CacheDistance))
	}

	model, err := typist.NewModel(img, chars, fnt, modelOpts...)
	if err != nil {
		return err
	}
	rows, err := model.Convert()
	if err != nil {
		return err
	}

	if opts.Output != "" {
		content := ""
		if len(rows) > 0 {
			content = strings.Join(rows, "\n") + "\n"
		}
		if err := os.WriteFile(opts.Output, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing art: %w", err)
		}
	}
	if opts.PNG != "" {
		art, err := typist.RenderImage(rows, fnt, typist.DefaultConfig())
		if err != nil {
			return err
		}
		if err := imageutil.SavePNG(art, opts.PNG); err != nil {
			return err
		}
	}

	if !opts.NoAnim && len(rows) > 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		delay := time.Duration(opts.Delay) * time.Millisecond
		return view.Animate(rows, view.WithDelay(delay))
	}
	return view.Print(os.Stdout, rows)
}

// parseTypeset keeps every character of the file except line breaks.
func parseTypeset(s string) []rune {
	chars := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		chars = append(chars, r)
	}
	return chars
}

// pickSentinel chooses the blank character that matches the typeset's
// display width: the full-width space when any character is double width,
// the plain space otherwise.
func pickSentinel(chars []rune) rune {
	for _, r := range chars {
		if runewidth.RuneWidth(r) > 1 {
			return typist.FullWidthSpace
		}
	}
	return ' '
}
