package session

import (
	"log/slog"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/fault"
	"github.com/mattjoyce/ucikit/internal/log"
	"github.com/mattjoyce/ucikit/internal/option"
	"github.com/mattjoyce/ucikit/internal/protocol"
)

const unnamedEngine = "Unnamed Engine"

// RegisterUCI installs "uci": identification, one line per option, uciok.
func (s *Session) RegisterUCI(name, author string) {
	if name == "" {
		name = unnamedEngine
	}
	s.Commands.Register("uci", func(*dispatch.Context) error {
		lines := []string{"id name " + name}
		if author != "" {
			lines = append(lines, "id author "+author)
		}
		for _, info := range s.Options.List() {
			lines = append(lines, protocol.FormatOption(info))
		}
		lines = append(lines, "uciok")
		return s.Out.WriteLines(lines...)
	})
}

// RegisterSetOption installs "setoption name <id> value <text>".
func (s *Session) RegisterSetOption() {
	s.Commands.Register("setoption", func(ctx *dispatch.Context) error {
		req, err := dispatch.ParseSetOption(ctx.Args())
		if err != nil {
			return err
		}
		kind, err := s.Options.Kind(req.Name)
		if err != nil {
			return err
		}
		if kind != option.Trigger && !req.HasValue {
			return fault.Inputf("Expected 'value'.")
		}
		if err := s.SetOptionText(req.Name, req.Value); err != nil {
			return err
		}
		s.logger.Debug("option set", "name", req.Name, "value", req.Value)
		return nil
	})
}

// RegisterIsReady installs "isready".
func (s *Session) RegisterIsReady() {
	s.Commands.Register("isready", func(*dispatch.Context) error {
		return s.Out.WriteLines("readyok")
	})
}

// RegisterNewGame installs "ucinewgame" calling fn.
func (s *Session) RegisterNewGame(fn func() error) {
	s.Commands.Register("ucinewgame", func(*dispatch.Context) error {
		return fn()
	})
}

// RegisterStop installs "stop" calling fn. Pass nil to raise the worker's
// stop flag.
func (s *Session) RegisterStop(fn func()) {
	if fn == nil {
		fn = s.Worker.RequestStop
	}
	s.Commands.Register("stop", func(*dispatch.Context) error {
		fn()
		return nil
	})
}

// RegisterQuit installs "quit", which exits with status 0 at once.
func (s *Session) RegisterQuit() {
	s.Commands.Register("quit", func(*dispatch.Context) error {
		s.logger.Debug("quit")
		s.terminate(0)
		return errQuit
	})
}

// RegisterGo installs "go", passing the parsed limits to fn.
func (s *Session) RegisterGo(fn func(dispatch.GoArgs) error) {
	s.Commands.Register("go", func(ctx *dispatch.Context) error {
		limits, err := dispatch.ParseGo(ctx.Args())
		if err != nil {
			return err
		}
		return fn(limits)
	})
}

// RegisterPosition installs "position", passing the parsed descriptor to fn.
func (s *Session) RegisterPosition(fn func(dispatch.PositionArgs) error) {
	s.Commands.Register("position", func(ctx *dispatch.Context) error {
		pos, err := dispatch.ParsePosition(ctx.Args())
		if err != nil {
			return err
		}
		return fn(pos)
	})
}

// RegisterDebug installs "debug on|off", switching the log level between
// debug and the level in effect when it was registered.
func (s *Session) RegisterDebug() {
	quiet := log.Level()
	s.Commands.Register("debug", func(ctx *dispatch.Context) error {
		switch mode := ctx.Args().ReadWord(); mode {
		case "on":
			log.SetLevel(slog.LevelDebug)
		case "off":
			log.SetLevel(quiet)
		default:
			return fault.Inputf("Expected 'on' or 'off', got %q.", mode)
		}
		return nil
	})
}

// RegisterBuiltins installs the verbs that need no engine callbacks.
func (s *Session) RegisterBuiltins(name, author string) {
	s.RegisterUCI(name, author)
	s.RegisterSetOption()
	s.RegisterIsReady()
	s.RegisterStop(nil)
	s.RegisterQuit()
	s.RegisterDebug()
}
