package syncer

import (
	"errors"
	"fmt"

	"github.com/sadopc/tally/internal/activity"
)

// ErrInvalidRange reports a request whose range is missing or inverted. It is
// a client error and is returned before any cache or upstream access.
var ErrInvalidRange = errors.New("invalid range")

// PersistenceError wraps a failed cache read or write. The sync did not land
// and may be retried by the caller.
type PersistenceError struct {
	Op     string
	Source activity.Source
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Temporary reports that the failure is retryable.
func (e *PersistenceError) Temporary() bool { return true }
