// Package engine wires a game implementation into a session: the standard
// options, the position/go/ucinewgame/bench commands, and the worker task
// that runs a search and reports its best move.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/log"
	"github.com/mattjoyce/ucikit/internal/protocol"
	"github.com/mattjoyce/ucikit/internal/session"
	"github.com/mattjoyce/ucikit/internal/worker"
)

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks github.com/mattjoyce/ucikit/internal/engine Position,Applier,Thinker,Bencher

// Position is a game state as the search sees it. Moves are in the
// protocol's long algebraic form.
type Position interface {
	FEN() string
	WhiteToMove() bool
	LegalMoves() []string
	Play(move string) (Position, error)
	// Evaluate scores the position in centipawns for the side to move.
	Evaluate() int
	// Checkmated reports whether the side to move has been mated.
	Checkmated() bool
}

// Applier builds a position from a descriptor and the moves played from it.
type Applier interface {
	Apply(fen string, moves []string) (Position, error)
}

// Reporter receives progress lines from a running search.
type Reporter interface {
	Info(frags ...protocol.Fragment) error
}

// Thinker picks a move. It runs on the worker goroutine and must return
// promptly once stop reports true. ponder may be empty.
type Thinker interface {
	Think(pos Position, limits dispatch.GoArgs, stop worker.StopSignal, report Reporter) (best, ponder string)
}

// Bencher runs a fixed workload for speed comparisons.
type Bencher interface {
	Bench() (nodes uint64, elapsed time.Duration, err error)
}

// Identity is what "uci" reports about the engine.
type Identity struct {
	Name   string
	Author string
	// InfoPerSecond caps progress lines from the search; 0 means no cap.
	InfoPerSecond float64
}

const (
	maxThreads = 1
	defaultMB  = 32
	maxHashMB  = 1024 * 1024
)

// Engine holds the current position and the collaborators.
type Engine struct {
	sess    *session.Session
	applier Applier
	thinker Thinker
	bencher Bencher
	id      Identity
	logger  *slog.Logger

	// pos is only touched by command handlers on the main loop; each search
	// gets the value current at "go" time.
	pos    Position
	hashMB int64
}

// New registers the standard commands and options on sess.
func New(sess *session.Session, id Identity, applier Applier, thinker Thinker, bencher Bencher) (*Engine, error) {
	e := &Engine{
		sess:    sess,
		applier: applier,
		thinker: thinker,
		bencher: bencher,
		id:      id,
		logger:  log.WithComponent("engine"),
		hashMB:  defaultMB,
	}

	// Tools such as OpenBench expect Threads and Hash even when unused.
	if err := sess.Options.RegisterInteger("Threads", 1, 1, maxThreads, nil); err != nil {
		return nil, fmt.Errorf("register Threads: %w", err)
	}
	if err := sess.Options.RegisterInteger("Hash", defaultMB, 1, maxHashMB, e.resizeHash); err != nil {
		return nil, fmt.Errorf("register Hash: %w", err)
	}

	sess.RegisterBuiltins(id.Name, id.Author)
	sess.RegisterNewGame(e.newGame)
	sess.RegisterPosition(e.setPosition)
	sess.RegisterGo(e.launchSearch)
	sess.Commands.Register("bench", func(*dispatch.Context) error { return e.Bench() })

	return e, nil
}

// ApplyOverrides sets options from configuration text, in name order, the
// same way setoption would.
func (e *Engine) ApplyOverrides(values map[string]string) error {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if err := e.sess.SetOptionText(n, values[n]); err != nil {
			return fmt.Errorf("config option %s: %w", n, err)
		}
		e.logger.Debug("option override applied", "name", n, "value", values[n])
	}
	return nil
}

// HashMB is the size requested through the Hash option.
func (e *Engine) HashMB() int64 { return e.hashMB }

// Bench runs the bench workload and prints "<nodes> nodes <nps> nps".
func (e *Engine) Bench() error {
	nodes, elapsed, err := e.bencher.Bench()
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}
	e.logger.Debug("bench finished", "nodes", nodes, "elapsed", elapsed)
	return e.sess.Out.WriteLines(fmt.Sprintf("%d nodes %d nps", nodes, nps))
}

func (e *Engine) resizeHash(mb int64) error {
	e.hashMB = mb
	e.logger.Debug("hash resized", "mb", mb)
	return nil
}

func (e *Engine) newGame() error {
	e.pos = nil
	e.logger.Debug("new game")
	return nil
}

func (e *Engine) setPosition(args dispatch.PositionArgs) error {
	pos, err := e.applier.Apply(args.FEN, args.Moves)
	if err != nil {
		return err
	}
	e.pos = pos
	return nil
}

func (e *Engine) currentPosition() (Position, error) {
	if e.pos != nil {
		return e.pos, nil
	}
	pos, err := e.applier.Apply(dispatch.StartPosFEN, nil)
	if err != nil {
		return nil, fmt.Errorf("initial position: %w", err)
	}
	e.pos = pos
	return pos, nil
}

func (e *Engine) launchSearch(limits dispatch.GoArgs) error {
	pos, err := e.currentPosition()
	if err != nil {
		return err
	}

	report := e.reporter()
	id, err := e.sess.Worker.Launch(func(stop worker.StopSignal) {
		best, ponder := e.thinker.Think(pos, limits, stop, report)
		if best == "" {
			best = protocol.NullMove
		}
		if err := e.sess.Out.BestMove(best, ponder); err != nil {
			e.logger.Error("report best move", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("launch search: %w", err)
	}
	e.logger.Debug("search launched", "task_id", id, "fen", pos.FEN(), "infinite", limits.Infinite)
	return nil
}

func (e *Engine) reporter() Reporter {
	if e.id.InfoPerSecond <= 0 {
		return e.sess.Out
	}
	return throttled{e.sess.Out.Throttled(e.id.InfoPerSecond)}
}

type throttled struct {
	t *protocol.Throttled
}

func (r throttled) Info(frags ...protocol.Fragment) error {
	_, err := r.t.Info(frags...)
	return err
}
