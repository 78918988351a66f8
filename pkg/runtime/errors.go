package runtime

import "errors"

var ErrSessionClosed = errors.New("session is closed")

// OpError reports which session operation failed. Every Session method
// returns its failures as an *OpError.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return "error " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }
