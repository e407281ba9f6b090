package protocol

import (
	"strconv"
	"strings"
	"time"
)

// Fragment renders one space-separated piece of an info line.
// A fragment that renders to "" is left out of the line.
type Fragment func() string

func intFragment(key string, n int64) Fragment {
	return func() string { return key + " " + strconv.FormatInt(n, 10) }
}

func uintFragment(key string, n uint64) Fragment {
	return func() string { return key + " " + strconv.FormatUint(n, 10) }
}

func Depth(n int) Fragment { return intFragment("depth", int64(n)) }
func SelDepth(n int) Fragment { return intFragment("seldepth", int64(n)) }
func HashFull(permille int) Fragment { return intFragment("hashfull", int64(permille)) }
func MultiPV(n int) Fragment { return intFragment("multipv", int64(n)) }
func CurrMoveNumber(n int) Fragment { return intFragment("currmovenumber", int64(n)) }
func Nodes(n uint64) Fragment { return uintFragment("nodes", n) }
func NPS(n uint64) Fragment { return uintFragment("nps", n) }
func TBHits(n uint64) Fragment { return uintFragment("tbhits", n) }

// Time reports elapsed search time in milliseconds.
func Time(d time.Duration) Fragment { return intFragment("time", d.Milliseconds()) }

func CurrMove(move string) Fragment { return func() string { return "currmove " + move } }

// String must be the last fragment on a line; the GUI reads to end of line.
func String(text string) Fragment { return func() string { return "string " + text } }

func Upperbound() Fragment { return func() string { return "upperbound" } }
func Lowerbound() Fragment { return func() string { return "lowerbound" } }

// PV reports a principal variation.
func PV(moves ...string) Fragment {
	return func() string {
		var b strings.Builder
		b.WriteString("pv")
		for _, m := range moves {
			b.WriteByte(' ')
			b.WriteString(m)
		}
		return b.String()
	}
}

// PVOf reports a principal variation of engine-native moves, formatting each
// with format.
func PVOf[M any](moves []M, format func(M) string) Fragment {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = format(m)
	}
	return PV(out...)
}

// Score reports a centipawn score with mate encoding disabled.
func Score(cp int) Fragment {
	return func() string { return "score cp " + strconv.Itoa(cp) }
}

// ScoreMate reports score, treating |score| >= mate-maxMatePlies as a mate
// distance. The move count is (plies+1)/2 where plies = mate-|score|, signed
// like score.
func ScoreMate(score, mate, maxMatePlies int) Fragment {
	if mate < 0 {
		mate = -mate
	}
	return func() string {
		abs := score
		if abs < 0 {
			abs = -abs
		}
		if abs < mate-maxMatePlies {
			return "score cp " + strconv.Itoa(score)
		}
		moves := (mate - abs + 1) / 2
		if score < 0 {
			moves = -moves
		}
		return "score mate " + strconv.Itoa(moves)
	}
}

// When renders f only if cond holds.
func When(cond bool, f Fragment) Fragment {
	return func() string {
		if !cond {
			return ""
		}
		return f()
	}
}

// FormatInfo joins fragments, left to right, behind the "info" tag.
func FormatInfo(frags ...Fragment) string {
	var b strings.Builder
	b.WriteString("info")
	for _, f := range frags {
		if f == nil {
			continue
		}
		s := f()
		if s == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(s)
	}
	return b.String()
}
