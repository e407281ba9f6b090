// Package fault separates user-caused input faults from everything else.
//
// An input fault is a malformed command argument: a missing keyword, an
// unknown option, an out-of-range value, an unparsable number or an
// unexpected token. The main loop reports these to the error stream and keeps
// going. Any other error is a programming fault and goes to the top-level
// fault handler.
package fault

import (
	"errors"
	"fmt"
)

// Classifier is implemented by errors that know which tier they belong to.
type Classifier interface {
	InputFault() bool
}

// InputError is a locally recoverable parsing or validation error.
type InputError struct {
	Msg string
	Err error
}

// Inputf builds an InputError from a format string.
func Inputf(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// Wrap marks err as an input fault with a user-facing message.
func Wrap(err error, format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *InputError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

// InputFault reports true; InputError always belongs to the input tier.
func (e *InputError) InputFault() bool { return true }

// IsInput reports whether any error in err's chain is an input fault.
func IsInput(err error) bool {
	var c Classifier
	if errors.As(err, &c) {
		return c.InputFault()
	}
	return false
}
