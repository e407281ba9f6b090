// Package search is a small material-only alpha-beta search. It exists to
// exercise the protocol plumbing end to end; swap in a real search through
// the engine.Thinker interface.
package search

import (
	"time"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/engine"
	"github.com/mattjoyce/ucikit/internal/protocol"
	"github.com/mattjoyce/ucikit/internal/worker"
)

const (
	// MateScore is the score of delivering mate at the root.
	MateScore = 32000
	// MaxMatePlies bounds the mate distances reported as "score mate".
	MaxMatePlies = 256

	moveOverhead    = 50 * time.Millisecond
	defaultMaxDepth = 64
	infinity        = MateScore + 1
	pollMask        = 63
)

// Budget returns how long to think, and false when time is unbounded.
// movetime wins; otherwise the side to move spends remaining/15 plus its
// increment.
func Budget(limits dispatch.GoArgs, whiteToMove bool) (time.Duration, bool) {
	ms := func(p *int64) time.Duration {
		if p == nil {
			return 0
		}
		return time.Duration(*p) * time.Millisecond
	}

	switch {
	case limits.MoveTime != nil:
		return ms(limits.MoveTime) - moveOverhead, true
	case whiteToMove && limits.WTime != nil:
		return ms(limits.WTime)/15 + ms(limits.WInc), true
	case !whiteToMove && limits.BTime != nil:
		return ms(limits.BTime)/15 + ms(limits.BInc), true
	}
	return 0, false
}

// Searcher implements engine.Thinker and engine.Bencher.
type Searcher struct {
	applier engine.Applier

	// MaxDepth caps iterative deepening when "go" gives no depth.
	MaxDepth int
	// BenchDepth is the fixed depth searched per bench position.
	BenchDepth int
}

func New(applier engine.Applier) *Searcher {
	return &Searcher{
		applier:    applier,
		MaxDepth:   defaultMaxDepth,
		BenchDepth: 2,
	}
}

type result struct {
	best   string
	ponder string
	nodes  uint64
}

// Think deepens until a limit is hit, reporting one info line per completed
// depth. Under "go infinite" it holds the move until stopped.
func (s *Searcher) Think(pos engine.Position, limits dispatch.GoArgs, stop worker.StopSignal, report engine.Reporter) (best, ponder string) {
	r := s.search(pos, limits, stop, report)
	if limits.Infinite {
		for !stop() {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return r.best, r.ponder
}

func (s *Searcher) search(pos engine.Position, limits dispatch.GoArgs, stop worker.StopSignal, report engine.Reporter) result {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return result{}
	}

	st := &state{stop: stop, start: time.Now()}
	st.budget, st.timed = Budget(limits, pos.WhiteToMove())
	if limits.Nodes != nil {
		st.nodeLimit = uint64(max(*limits.Nodes, 1))
	}
	maxDepth := s.MaxDepth
	if limits.Depth != nil && int(*limits.Depth) < maxDepth {
		maxDepth = max(int(*limits.Depth), 1)
	}

	r := result{best: moves[0]}
	for depth := 1; depth <= maxDepth; depth++ {
		score, pv := st.negamax(pos, depth, 0, -infinity, infinity)
		if st.aborted || len(pv) == 0 {
			break
		}
		r.best, r.ponder = pv[0], ""
		if len(pv) > 1 {
			r.ponder = pv[1]
		}

		elapsed := time.Since(st.start)
		_ = report.Info(
			protocol.Depth(depth),
			protocol.ScoreMate(score, MateScore, MaxMatePlies),
			protocol.Nodes(st.nodes),
			protocol.NPS(nps(st.nodes, elapsed)),
			protocol.Time(elapsed),
			protocol.PV(pv...),
		)

		if abs(score) >= MateScore-MaxMatePlies {
			break
		}
		if st.timed && elapsed >= st.budget {
			break
		}
	}
	r.nodes = st.nodes
	return r
}

type state struct {
	stop      worker.StopSignal
	start     time.Time
	budget    time.Duration
	timed     bool
	nodeLimit uint64
	nodes     uint64
	aborted   bool
}

func (st *state) shouldAbort() bool {
	if st.aborted {
		return true
	}
	if st.nodeLimit > 0 && st.nodes >= st.nodeLimit {
		st.aborted = true
	} else if st.nodes&pollMask == 0 {
		st.aborted = st.stop() || (st.timed && time.Since(st.start) >= st.budget)
	}
	return st.aborted
}

func (st *state) negamax(pos engine.Position, depth, ply, alpha, beta int) (int, []string) {
	st.nodes++
	if st.shouldAbort() {
		return 0, nil
	}
	if depth == 0 {
		return pos.Evaluate(), nil
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.Checkmated() {
			return -MateScore + ply, nil
		}
		return 0, nil
	}

	best := -infinity
	var pv []string
	for _, m := range moves {
		child, err := pos.Play(m)
		if err != nil {
			continue
		}
		score, childPV := st.negamax(child, depth-1, ply+1, -beta, -alpha)
		if st.aborted {
			return 0, nil
		}
		score = -score
		if score > best {
			best = score
			pv = append([]string{m}, childPV...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return best, pv
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
