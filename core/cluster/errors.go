package cluster

import (
	"errors"
	"fmt"
)

// CommError wraps a transport or cluster-side failure of an admin call.
// The core never retries these; retry policy belongs to the adapter.
type CommError struct {
	// Op is the admin operation that failed (list, create, disable...).
	Op string
	// Table is the table the operation targeted, when applicable.
	Table string
	// Err is the underlying adapter error.
	Err error
}

func (e *CommError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("cluster %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cluster %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *CommError) Unwrap() error {
	return e.Err
}

// IsComm reports whether err is, or wraps, a CommError.
func IsComm(err error) bool {
	var ce *CommError
	return errors.As(err, &ce)
}
