package storage

import "fmt"

// StorageUnavailableError signals that the persistence layer could not be
// reached or failed mid-operation. Callers must surface it rather than
// treat the condition as "no data": an empty report and an unreachable
// store are different answers.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func unavailable(op string, err error) error {
	return &StorageUnavailableError{Op: op, Err: err}
}
