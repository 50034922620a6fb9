// Package view presents converted art: plain writer output for pipes and
// files, and an animated terminal reveal that types the art character by
// character.
package view

import (
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DefaultDelay is the pause between typed characters during animation.
const DefaultDelay = 10 * time.Millisecond

// Option adjusts animation behavior.
type Option func(*options)

type options struct {
	delay time.Duration
}

// WithDelay sets the pause between typed characters. A negative delay is
// treated as zero.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.delay = d
	}
}

// Print writes the rows to w, one line each.
func Print(w io.Writer, rows []string) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Animate reveals the rows on the terminal one character at a time, then
// keeps them on screen until Escape, q, or Ctrl-C arrives. The same keys
// end the animation early.
func Animate(rows []string, opts ...Option) error {
	o := options{delay: DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	defer screen.Fini()

	animate(screen, rows, o.delay)
	return nil
}

// animate types the rows onto an initialized screen and blocks until a
// quit key arrives. Split out so tests can drive it with a simulation
// screen.
func animate(screen tcell.Screen, rows []string, delay time.Duration) {
	screen.HideCursor()
	screen.Clear()

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape,
					ev.Key() == tcell.KeyCtrlC,
					ev.Rune() == 'q':
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			case nil:
				// Screen torn down.
				return
			}
		}
	}()

	typeRows(screen, rows, delay, quit)
	<-quit
}

// typeRows places the rows on the screen one character at a time, showing
// after each. Wide characters advance the column by their display width.
// A close of quit aborts between characters.
func typeRows(screen tcell.Screen, rows []string, delay time.Duration, quit <-chan struct{}) {
	for y, row := range rows {
		x := 0
		for _, char := range row {
			select {
			case <-quit:
				return
			default:
			}
			screen.SetContent(x, y, char, nil, tcell.StyleDefault)
			screen.Show()
			if delay > 0 {
				time.Sleep(delay)
			}
			x += runewidth.RuneWidth(char)
		}
	}
}
