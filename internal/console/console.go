// Package console supplies input lines to the main loop.
//
// When stdin is a terminal the source uses ergochat/readline, so a person
// typing commands by hand gets line editing and history. Otherwise, which is
// the normal case under a GUI, lines are read with a bufio.Scanner.
package console

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"

	"github.com/mattjoyce/ucikit/internal/log"
)

const (
	historySize = 500

	// maxLineBytes bounds one command line. Long games produce long
	// "position ... moves" lines.
	maxLineBytes = 1 << 20
)

// Source reads one command per line.
type Source struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
}

// NewReader reads lines from r without line editing.
func NewReader(r io.Reader) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Source{scanner: sc}
}

// NewStdin picks readline when stdin is a terminal and a plain scanner
// otherwise. historyPath may be empty to keep history in memory only.
func NewStdin(historyPath string) *Source {
	if !term.IsTerminal(int(os.Stdin.Fd())) || os.Getenv("INSIDE_EMACS") != "" {
		return NewReader(os.Stdin)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		log.WithComponent("console").Warn("readline init failed, using basic input", "error", err)
		return NewReader(os.Stdin)
	}
	return &Source{interactive: true, rl: rl}
}

// ReadLine returns the next line without its terminator, or io.EOF.
func (s *Source) ReadLine() (string, error) {
	if s.interactive {
		return s.readInteractive()
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(s.scanner.Text(), "\r"), nil
}

func (s *Source) readInteractive() (string, error) {
	line, err := s.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		s.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

// Interactive reports whether readline is in use.
func (s *Source) Interactive() bool { return s.interactive }

func (s *Source) Close() {
	if s.rl != nil {
		s.rl.Close()
		s.rl = nil
	}
}
