// internal/service/errors.go
package service

import "fmt"

// ValidationError is raised client-side before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// TransitionError is a server rejection of a status change. The locally held
// order is left unchanged; callers must reload to resynchronize.
type TransitionError struct {
	OrderID int64
	Target  string
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("status change to %s rejected for order %d: %v", e.Target, e.OrderID, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// ReceiveError is a rejected mark-received call. It is distinct from
// TransitionError so the operator knows inventory was not updated.
type ReceiveError struct {
	OrderID int64
	Err     error
}

func (e *ReceiveError) Error() string {
	return fmt.Sprintf("receiving failed for order %d, inventory not updated: %v", e.OrderID, e.Err)
}

func (e *ReceiveError) Unwrap() error { return e.Err }
