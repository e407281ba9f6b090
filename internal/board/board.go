// Package board adapts github.com/notnil/chess to the engine's Position
// interface.
package board

import (
	"strings"

	"github.com/notnil/chess"

	"github.com/mattjoyce/ucikit/internal/engine"
	"github.com/mattjoyce/ucikit/internal/fault"
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}

// Applier builds positions from FEN text and long algebraic moves.
type Applier struct{}

// Apply parses fen and plays moves on it. A bad FEN or an illegal move is an
// input fault.
func (Applier) Apply(fen string, moves []string) (engine.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fault.Wrap(err, "Invalid FEN: %s", fen)
	}
	p := &Position{pos: chess.NewGame(opt).Position()}
	for _, m := range moves {
		next, err := p.play(m)
		if err != nil {
			return nil, err
		}
		p = next
	}
	return p, nil
}

// Position wraps an immutable *chess.Position.
type Position struct {
	pos *chess.Position
}

func (p *Position) FEN() string { return p.pos.String() }

func (p *Position) WhiteToMove() bool { return p.pos.Turn() == chess.White }

func (p *Position) LegalMoves() []string {
	valid := p.pos.ValidMoves()
	out := make([]string, len(valid))
	for i, m := range valid {
		out[i] = m.String()
	}
	return out
}

// Play returns the position after move, leaving p unchanged.
func (p *Position) Play(move string) (engine.Position, error) {
	return p.play(move)
}

func (p *Position) play(move string) (*Position, error) {
	want := strings.ToLower(move)
	for _, m := range p.pos.ValidMoves() {
		if m.String() == want {
			return &Position{pos: p.pos.Update(m)}, nil
		}
	}
	return nil, fault.Inputf("Illegal move: %s", move)
}

// Evaluate counts material for the side to move.
func (p *Position) Evaluate() int {
	score := 0
	for _, piece := range p.pos.Board().SquareMap() {
		v := pieceValues[piece.Type()]
		if piece.Color() == chess.White {
			score += v
		} else {
			score -= v
		}
	}
	if !p.WhiteToMove() {
		score = -score
	}
	return score
}

func (p *Position) Checkmated() bool { return p.pos.Status() == chess.Checkmate }
