package business

import "fmt"

// ValidationError means the caller's request fails a precondition, such as
// ordering more units than a product holds. Not retryable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// StateError means the requested transition is illegal for the entity's
// current state. The entity is left unchanged.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

// NotFoundError means the referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError means a concurrent mutation invalidated the operation.
// This is the one failure worth retrying, since the condition may resolve.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
