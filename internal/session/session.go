// Package session ties the option registry, the command table, the worker and
// the protocol writer into one process context, and runs the read-dispatch
// loop over it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/events"
	"github.com/mattjoyce/ucikit/internal/fault"
	"github.com/mattjoyce/ucikit/internal/log"
	"github.com/mattjoyce/ucikit/internal/option"
	"github.com/mattjoyce/ucikit/internal/protocol"
	"github.com/mattjoyce/ucikit/internal/worker"
)

// errQuit unwinds the loop after the quit command when exit returns.
var errQuit = errors.New("quit")

// LineSource yields input lines without their terminators. It returns io.EOF
// at end of input.
type LineSource interface {
	ReadLine() (string, error)
}

// PanicError is a handler panic converted to an error.
type PanicError struct {
	Command string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s handler: %v", e.Command, e.Value)
}

// Config carries the session's I/O endpoints.
type Config struct {
	Out    io.Writer
	Err    io.Writer
	Exit   func(code int)
	Events *events.Hub
}

// Session is the process context: one option registry, one command table, one
// worker.
type Session struct {
	Options  *option.Registry
	Commands *dispatch.Table
	Worker   *worker.Worker
	Out      *protocol.Writer
	Diag     *protocol.Writer

	exit   func(int)
	logger *slog.Logger

	mu      sync.Mutex
	onFault func(error)
	exited  bool
}

// New builds a session with empty tables. Unset endpoints default to the
// process's stdout, stderr and os.Exit.
func New(cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.Exit == nil {
		cfg.Exit = os.Exit
	}
	s := &Session{
		Options:  option.NewRegistry(),
		Commands: dispatch.NewTable(),
		Worker:   worker.New(cfg.Events),
		Out:      protocol.NewWriter(cfg.Out),
		Diag:     protocol.NewWriter(cfg.Err),
		exit:     cfg.Exit,
		logger:   log.WithComponent("session"),
	}
	s.onFault = s.defaultFault
	s.Worker.SetFaultHandler(s.Fault)
	return s
}

// SetFaultHandler replaces the top-level handler for non-input faults. A
// handler that returns without exiting keeps the loop running.
func (s *Session) SetFaultHandler(h func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		h = s.defaultFault
	}
	s.onFault = h
}

// Fault routes err to the top-level fault handler.
func (s *Session) Fault(err error) {
	s.mu.Lock()
	h := s.onFault
	s.mu.Unlock()
	h(err)
}

func (s *Session) defaultFault(err error) {
	s.logger.Error("fatal fault", "error", err)
	_ = s.Diag.WriteLines("Fatal: " + err.Error())
	s.terminate(1)
}

func (s *Session) terminate(code int) {
	s.mu.Lock()
	s.exited = true
	s.mu.Unlock()
	s.exit(code)
}

func (s *Session) hasExited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

// Run reads lines from src until end of input, ctx cancellation or exit.
func (s *Session) Run(ctx context.Context, src LineSource) error {
	s.logger.Debug("main loop started")
	defer s.logger.Debug("main loop stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if s.Handle(line) || s.hasExited() {
			return nil
		}
	}
}

// Handle dispatches one input line and reports whether the loop should end.
func (s *Session) Handle(line string) (quit bool) {
	name, remainder := dispatch.SplitCommand(line)
	if name == "" {
		return false
	}

	h, ok := s.Commands.Lookup(name)
	if !ok {
		s.logger.Debug("unknown command", "command", name)
		_ = s.Diag.WriteLines("Unknown command: " + name)
		return false
	}

	err := s.invoke(name, h, dispatch.NewContext(name, remainder))
	switch {
	case err == nil:
	case errors.Is(err, errQuit):
		return true
	case fault.IsInput(err):
		s.logger.Debug("input fault", "command", name, "error", err)
		_ = s.Diag.WriteLines("Error: " + err.Error())
	default:
		var pe *PanicError
		if !errors.As(err, &pe) {
			err = fmt.Errorf("command %s: %w", name, err)
		}
		s.Fault(err)
	}
	return false
}

func (s *Session) invoke(name string, h dispatch.Handler, ctx *dispatch.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Command: name, Value: r, Stack: debug.Stack()}
		}
	}()
	return h(ctx)
}

// SetOptionText converts text per the option's kind and sets it, the way the
// setoption command does. Trigger options fire and ignore text.
func (s *Session) SetOptionText(name, text string) error {
	kind, err := s.Options.Kind(name)
	if err != nil {
		return err
	}
	if kind == option.Trigger {
		return s.Options.Trigger(name)
	}
	v, err := option.Parse(kind, text)
	if err != nil {
		return err
	}
	return s.Options.Set(name, v)
}

// Close stops any running task and waits for the worker to exit.
func (s *Session) Close() {
	s.Worker.Shutdown()
}
