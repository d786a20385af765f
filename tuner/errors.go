package tuner

import (
	"errors"
	"fmt"
)

var (
	ErrConflictingInit = errors.New("conflicting initialization: choose one of zero, material or init file")
	ErrNoInit          = errors.New("no initialization selected")
	ErrEmptyDataset    = errors.New("dataset has no positions")
	ErrBadCache        = errors.New("corrupt coefficient cache")
	ErrLayoutMismatch  = errors.New("parameter layout mismatch")
)

// LineError reports a fatal problem with one dataset line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	text := e.Text
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, text)
}

func (e *LineError) Unwrap() error { return e.Err }
