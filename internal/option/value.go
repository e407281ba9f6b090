package option

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattjoyce/ucikit/internal/fault"
)

// Kind is the discriminant of an option value.
type Kind int

const (
	Trigger Kind = iota
	Integer
	Text
	Boolean
)

// String returns the protocol name of the kind.
func (k Kind) String() string {
	switch k {
	case Trigger:
		return "button"
	case Integer:
		return "spin"
	case Text:
		return "string"
	case Boolean:
		return "check"
	default:
		return "unknown"
	}
}

// Value is a tagged union over {unit, int64, string, bool}.
// The accessors check the tag; the zero Value is a unit (Trigger) value.
type Value struct {
	kind Kind
	i    int64
	s    string
	b    bool
}

func UnitValue() Value { return Value{kind: Trigger} }
func IntValue(n int64) Value { return Value{kind: Integer, i: n} }
func TextValue(s string) Value { return Value{kind: Text, s: s} }
func BoolValue(b bool) Value { return Value{kind: Boolean, b: b} }
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer payload if v is an Integer value.
func (v Value) AsInt() (int64, bool) {
	if v.kind != Integer {
		return 0, false
	}
	return v.i, true
}

// AsText returns the string payload if v is a Text value.
func (v Value) AsText() (string, bool) {
	if v.kind != Text {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean payload if v is a Boolean value.
func (v Value) AsBool() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.b, true
}

// String formats the payload the way it appears on the wire.
func (v Value) String() string {
	switch v.kind {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Text:
		return v.s
	case Boolean:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Parse converts protocol text into a value of the given kind.
// Integer text that does not parse is an input fault. Boolean text is true
// only for the exact literal "true".
func Parse(kind Kind, text string) (Value, error) {
	switch kind {
	case Trigger:
		return UnitValue(), nil
	case Integer:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, fault.Wrap(err, "Expected an integer number, got %q.", text)
		}
		return IntValue(n), nil
	case Text:
		return TextValue(text), nil
	case Boolean:
		return BoolValue(strings.TrimSpace(text) == "true"), nil
	default:
		return Value{}, fmt.Errorf("parse option value: unknown kind %d", kind)
	}
}
