package statefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoStateFile indicates no account-state file matched the expected
// naming convention under the resolved profile directory.
var ErrNoStateFile = errors.New("no account-state file found")

// AmbiguousProfileError is returned when the state root contains more than
// one profile directory and the configuration does not name one.
type AmbiguousProfileError struct {
	Root     string
	Profiles []string
}

func (e *AmbiguousProfileError) Error() string {
	return fmt.Sprintf("multiple profiles under %s (%s): set profile in configuration",
		e.Root, strings.Join(e.Profiles, ", "))
}

// MalformedStateError indicates the state file's container format is
// structurally invalid: missing byte-order mark, truncated payload, or
// undecodable JSON. Domain-level problems are not this error; they belong
// to the normalizer.
type MalformedStateError struct {
	Reason string
	Err    error
}

func (e *MalformedStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed state file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed state file: %s", e.Reason)
}

func (e *MalformedStateError) Unwrap() error { return e.Err }
