package dispatch

import (
	"strings"

	"github.com/mattjoyce/ucikit/internal/args"
	"github.com/mattjoyce/ucikit/internal/fault"
)

// StartPosFEN is the standard initial position.
const StartPosFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// GoArgs are the search limits of one "go" command. Nil fields were not
// given. Infinite holds until any other limit is seen.
type GoArgs struct {
	WTime     *int64
	WInc      *int64
	BTime     *int64
	BInc      *int64
	MovesToGo *int64
	Nodes     *int64
	Depth     *int64
	MoveTime  *int64
	Infinite  bool
}

func (g *GoArgs) limit(key string) **int64 {
	switch key {
	case "wtime":
		return &g.WTime
	case "winc":
		return &g.WInc
	case "btime":
		return &g.BTime
	case "binc":
		return &g.BInc
	case "movestogo":
		return &g.MovesToGo
	case "nodes":
		return &g.Nodes
	case "depth":
		return &g.Depth
	case "movetime":
		return &g.MoveTime
	}
	return nil
}

// ParseGo reads search limits until the end of input.
func ParseGo(r *args.Reader) (GoArgs, error) {
	g := GoArgs{Infinite: true}
	for {
		word := r.ReadWord()
		if word == "" {
			return g, nil
		}
		if word == "infinite" {
			if !g.Infinite {
				return GoArgs{}, fault.Inputf("infinite after limits were specified")
			}
			continue
		}
		field := g.limit(word)
		if field == nil {
			return GoArgs{}, fault.Inputf("Unexpected token: %s", word)
		}
		n, err := r.ReadInt()
		if err != nil {
			return GoArgs{}, fault.Wrap(err, "Expected an integer number after %s.", word)
		}
		if word == "nodes" && n <= 0 {
			return GoArgs{}, fault.Inputf("Expected a positive node count, got %d.", n)
		}
		*field = &n
		g.Infinite = false
	}
}

// PositionArgs is a position descriptor plus the moves to play from it.
// Neither is validated here.
type PositionArgs struct {
	FEN   string
	Moves []string
}

// ParsePosition reads "startpos" or "fen <fields...>", then an optional
// "moves <move...>" tail.
func ParsePosition(r *args.Reader) (PositionArgs, error) {
	var p PositionArgs

	switch word := r.ReadWord(); word {
	case "startpos":
		p.FEN = StartPosFEN
	case "fen":
		var fields []string
		for {
			r.SkipWhitespace()
			if r.Finished() || peekWord(r) == "moves" {
				break
			}
			fields = append(fields, r.ReadWord())
		}
		p.FEN = strings.Join(fields, " ")
	case "":
		return PositionArgs{}, fault.Inputf("Expected a position specifier (fen or startpos)")
	default:
		return PositionArgs{}, fault.Inputf("Unexpected argument to position: %s", word)
	}

	switch word := r.ReadWord(); word {
	case "":
		return p, nil
	case "moves":
	default:
		return PositionArgs{}, fault.Inputf("Unexpected argument to position: %s", word)
	}

	p.Moves = []string{}
	for m := r.ReadWord(); m != ""; m = r.ReadWord() {
		p.Moves = append(p.Moves, m)
	}
	return p, nil
}

func peekWord(r *args.Reader) string {
	rest := r.PeekRemainder()
	end := 0
	for end < len(rest) && !args.IsWhitespace(rest[end]) {
		end++
	}
	return rest[:end]
}

// SetOptionArgs is a parsed "setoption" request. Value is the raw text after
// the "value" keyword, trimmed.
type SetOptionArgs struct {
	Name     string
	Value    string
	HasValue bool
}

// ParseSetOption reads "name <id...> [value <text...>]". The name may span
// several words and ends at the "value" keyword.
func ParseSetOption(r *args.Reader) (SetOptionArgs, error) {
	if r.ReadWord() != "name" {
		return SetOptionArgs{}, fault.Inputf("Expected 'name'.")
	}

	var s SetOptionArgs
	var nameWords []string
	for {
		word := r.ReadWord()
		if word == "" {
			break
		}
		if word == "value" {
			s.HasValue = true
			break
		}
		nameWords = append(nameWords, word)
	}
	s.Name = strings.Join(nameWords, " ")
	if s.Name == "" {
		return SetOptionArgs{}, fault.Inputf("Expected an option name.")
	}
	if s.HasValue {
		s.Value = strings.TrimSpace(r.PeekRemainder())
	}
	return s, nil
}
