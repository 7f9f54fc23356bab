package mcumgrclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnspecifiedDevice is returned when neither the session defaults
// nor the per-call options name a serial device.
var ErrUnspecifiedDevice = errors.New("unspecified serial device")

// ErrNoResponseMarker is returned when the list output contains no
// "response: " marker to cut the JSON document at.
var ErrNoResponseMarker = errors.New(`no "response: " marker in command output`)

// OptionTypeError reports an option value whose type does not match the
// type declared for that option in the recognized option set.
type OptionTypeError struct {
	Key      string
	Expected string
	Received string
}

func (e *OptionTypeError) Error() string {
	return fmt.Sprintf("expected %s for %s, received %s", e.Expected, e.Key, e.Received)
}

// ProcessError reports a non-zero exit of the external tool. Args is the
// full argument vector including the executable; Stdout and Stderr are
// stripped of ANSI escape sequences.
type ProcessError struct {
	ExitCode int
	Args     []string
	Stdout   string
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("command %q exited with code %d: %s",
		strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}
