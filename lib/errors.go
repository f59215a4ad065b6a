package rotateprimarylib

import (
	"errors"
	"fmt"
)

var (
	ErrNoDisplaysFound      = errors.New("no attached displays found")
	ErrPrimaryNotIdentified = errors.New("could not identify current primary display")
	ErrSetPrimaryFailed     = errors.New("failed to set primary display")
	ErrRepositionFailed     = errors.New("failed to reposition display")
	ErrApplyFailed          = errors.New("failed to apply display changes")

	// Never returned from a run, only logged while enumerating
	ErrModeQuerySkipped = errors.New("could not read display mode, skipping")
)

const (
	ExitSuccess          = 0
	ExitNoDisplays       = 1
	ExitNoPrimary        = 2
	ExitSetPrimaryFailed = 3
	ExitRepositionFailed = 4
	ExitApplyFailed      = 5
	ExitUnexpected       = 64
)

// Error is a fatal failure of one step of a run. It matches both its Kind and
// its Cause with errors.Is.
type Error struct {
	Kind   error
	Device string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Device != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Device)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// ExitCode satisfies cli.ExitCoder
func (e *Error) ExitCode() int {
	return ExitCode(e.Kind)
}

// ExitCode maps any error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoDisplaysFound):
		return ExitNoDisplays
	case errors.Is(err, ErrPrimaryNotIdentified):
		return ExitNoPrimary
	case errors.Is(err, ErrSetPrimaryFailed):
		return ExitSetPrimaryFailed
	case errors.Is(err, ErrRepositionFailed):
		return ExitRepositionFailed
	case errors.Is(err, ErrApplyFailed):
		return ExitApplyFailed
	}
	return ExitUnexpected
}
