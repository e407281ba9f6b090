package search

import (
	"fmt"
	"time"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/protocol"
)

var benchPositions = []string{
	dispatch.StartPosFEN,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
}

type discard struct{}

func (discard) Info(...protocol.Fragment) error { return nil }

// Bench searches a fixed set of positions to BenchDepth and returns the total
// node count and time taken.
func (s *Searcher) Bench() (uint64, time.Duration, error) {
	depth := int64(s.BenchDepth)
	limits := dispatch.GoArgs{Depth: &depth}
	never := func() bool { return false }

	start := time.Now()
	var nodes uint64
	for _, fen := range benchPositions {
		pos, err := s.applier.Apply(fen, nil)
		if err != nil {
			return 0, 0, fmt.Errorf("bench position %q: %w", fen, err)
		}
		nodes += s.search(pos, limits, never, discard{}).nodes
	}
	return nodes, time.Since(start), nil
}
