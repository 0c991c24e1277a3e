package service

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrOperationFailed = errors.New("operation failed")
)

// OperationError reports a storage failure behind one of the todo actions.
// Op names the action, Err carries the underlying cause.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes every OperationError match ErrOperationFailed.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

func opFailed(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}
