// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mia-platform/templogger/internal/level"
)

var (
	// ErrNotTerminal is returned when colors are requested for a writer that is not a terminal.
	ErrNotTerminal = errors.New("output is not a terminal")
)

// Terminal writes lines to the standard streams: log and info go to stdout,
// warn and error to stderr.
type Terminal struct {
	stdout io.Writer
	stderr io.Writer
}

// NewTerminal returns a Terminal over the given streams. Both are wrapped with Lock.
func NewTerminal(stdout, stderr io.Writer) *Terminal {
	return &Terminal{
		stdout: Lock(stdout),
		stderr: Lock(stderr),
	}
}

// Stdout returns the stream used by the log and info verbs.
func (t *Terminal) Stdout() io.Writer {
	return t.stdout
}

// Stderr returns the stream used by the warn and error verbs.
func (t *Terminal) Stderr() io.Writer {
	return t.stderr
}

// Write prints text followed by a newline on the stream of method.
func (t *Terminal) Write(method level.Method, text string) error {
	w := t.stdout
	if method.Stderr() {
		w = t.stderr
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}

// Colorizer styles text with the terminal color of a level.
type Colorizer struct {
	colors map[level.Level]*color.Color
}

// NewColorizer returns a Colorizer that always emits escape sequences.
func NewColorizer() *Colorizer {
	colors := make(map[level.Level]*color.Color, len(level.All()))
	for _, l := range level.All() {
		attributes := l.Color()
		if len(attributes) == 0 {
			continue
		}
		c := color.New(attributes...)
		c.EnableColor()
		colors[l] = c
	}
	return &Colorizer{colors: colors}
}

// LoadColorizer returns a Colorizer when out is a terminal or force is set.
func LoadColorizer(out io.Writer, force bool) (*Colorizer, error) {
	if !force && !IsTerminal(out) {
		return nil, fmt.Errorf("colored terminal logs not available: %w", ErrNotTerminal)
	}
	return NewColorizer(), nil
}

// Colorize wraps text in the escape sequences of l. DEBUG text is returned as is.
func (c *Colorizer) Colorize(l level.Level, text string) string {
	if cl, ok := c.colors[l]; ok {
		return cl.Sprint(text)
	}
	return text
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	if lw, ok := w.(*lockWriter); ok {
		w = lw.w
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Lock wraps w in a mutex to make it safe for concurrent use.
func Lock(w io.Writer) io.Writer {
	if _, ok := w.(*lockWriter); ok {
		return w
	}
	return &lockWriter{w: w}
}

type lockWriter struct {
	sync.Mutex
	w io.Writer
}

func (lw *lockWriter) Write(p []byte) (int, error) {
	lw.Lock()
	defer lw.Unlock()
	return lw.w.Write(p)
}
