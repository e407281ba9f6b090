// Package protocol writes engine-to-GUI lines on the text channel.
//
// Every call emits whole lines with a single Write under a mutex, so lines
// produced by the worker goroutine never interleave with lines produced by
// command handlers on the main loop.
package protocol

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mattjoyce/ucikit/internal/option"
)

// NullMove is the protocol literal for "no move".
const NullMove = "0000"

// emptyDefault stands in for an empty string default on an option line.
const emptyDefault = "<empty>"

// Writer serializes protocol output.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteLines writes each line followed by a newline, as one block.
func (w *Writer) WriteLines(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return fmt.Errorf("write protocol output: %w", err)
	}
	return nil
}

// Info writes one "info ..." line composed of frags.
func (w *Writer) Info(frags ...Fragment) error {
	return w.WriteLines(FormatInfo(frags...))
}

// BestMove writes "bestmove <move>" and, when ponder is a real move,
// " ponder <ponder>".
func (w *Writer) BestMove(move, ponder string) error {
	return w.WriteLines(FormatBestMove(move, ponder))
}

// FormatBestMove renders a bestmove line.
func FormatBestMove(move, ponder string) string {
	if ponder == "" || ponder == NullMove {
		return "bestmove " + move
	}
	return "bestmove " + move + " ponder " + ponder
}

// FormatOption renders the "option ..." line advertising one option.
func FormatOption(info option.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "option name %s type %s", info.Name, info.Kind)
	switch info.Kind {
	case option.Integer:
		fmt.Fprintf(&b, " default %s", info.Default)
		if info.Bounds != nil {
			fmt.Fprintf(&b, " min %d max %d", info.Bounds.Min, info.Bounds.Max)
		}
	case option.Text:
		def := info.Default.String()
		if def == "" {
			def = emptyDefault
		}
		fmt.Fprintf(&b, " default %s", def)
	case option.Boolean:
		fmt.Fprintf(&b, " default %s", info.Default)
	}
	return b.String()
}

// Throttled drops info lines that exceed a rate. It is meant for
// high-frequency progress such as currmove updates; final results should go
// through Writer directly.
type Throttled struct {
	w   *Writer
	lim *rate.Limiter
}

// Throttled returns a reporter allowing perSecond lines with a burst of one.
// perSecond <= 0 disables throttling.
func (w *Writer) Throttled(perSecond float64) *Throttled {
	lim := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Throttled{w: w, lim: lim}
}

// Info writes the line if the rate allows it and reports whether it did.
func (t *Throttled) Info(frags ...Fragment) (bool, error) {
	if !t.lim.Allow() {
		return false, nil
	}
	return true, t.w.Info(frags...)
}
