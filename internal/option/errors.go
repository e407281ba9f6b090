package option

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("option not found")
	ErrTypeMismatch = errors.New("option type mismatch")
	ErrOutOfRange   = errors.New("option value out of range")
)

// NotFoundError is returned when no option is registered under Name.
// It is an input fault: the name usually comes from the GUI.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("No such option: %s", e.Name) }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) InputFault() bool { return true }

// TypeMismatchError signals a caller asking for, or supplying, the wrong kind.
// It is a programming fault.
type TypeMismatchError struct {
	Name string
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("option %s is of type %s, not %s", e.Name, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// RangeError names the Integer bound a value violated.
type RangeError struct {
	Name  string
	Bound string // "min" | "max"
	Limit int64
	Value int64
}

func (e *RangeError) Error() string {
	if e.Bound == "max" {
		return fmt.Sprintf("Maximum value for option %s is %d.", e.Name, e.Limit)
	}
	return fmt.Sprintf("Minimum value for option %s is %d.", e.Name, e.Limit)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }
func (e *RangeError) InputFault() bool { return true }
