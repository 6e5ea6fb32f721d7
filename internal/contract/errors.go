package contract

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHandler       = errors.New("missing handler")
	ErrUnsupportedMethod    = errors.New("unsupported method")
	ErrMissingOperationID   = errors.New("missing operationId")
	ErrDuplicateOperationID = errors.New("duplicate operationId")
)

// BindError locates a contract problem found while parsing or planning.
type BindError struct {
	Kind        error
	Path        string
	Method      string
	OperationID string
}

func (e *BindError) Error() string {
	msg := fmt.Sprintf("%v: %s %s", e.Kind, e.Method, e.Path)
	if e.OperationID != "" {
		msg += fmt.Sprintf(" (operation %q)", e.OperationID)
	}
	return msg
}

func (e *BindError) Unwrap() error {
	return e.Kind
}
