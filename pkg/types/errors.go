package types

import (
	"errors"
	"fmt"
)

// Error kinds returned by the graph engine. Callers match these with
// errors.Is; the typed errors below carry the offending identifiers.
var (
	// ErrNotFound indicates a referenced entity, relation, or backup is absent
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntity indicates a create with an already existing name
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrConflict indicates an operation that contradicts itself,
	// such as merging an entity into itself
	ErrConflict = errors.New("conflicting operation")

	// ErrMissingEntity indicates a relation endpoint that does not exist
	ErrMissingEntity = errors.New("relation endpoint does not exist")

	// ErrCorruptData indicates a persisted document that fails schema validation
	ErrCorruptData = errors.New("corrupt graph data")

	// ErrInvalidArgument indicates a malformed request value
	ErrInvalidArgument = errors.New("invalid argument")
)

// EntityNotFoundError reports a missing entity by name.
type EntityNotFoundError struct {
	Name string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.Name)
}

// Is implements errors.Is support so callers can match ErrNotFound.
func (e *EntityNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*EntityNotFoundError)
	return ok
}

// NewEntityNotFoundError creates a not-found error for the named entity.
func NewEntityNotFoundError(name string) *EntityNotFoundError {
	return &EntityNotFoundError{Name: name}
}

// MissingEntityError reports a relation endpoint that is not in the graph.
type MissingEntityError struct {
	Name string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("relation endpoint %q does not exist", e.Name)
}

func (e *MissingEntityError) Is(target error) bool {
	if target == ErrMissingEntity {
		return true
	}
	_, ok := target.(*MissingEntityError)
	return ok
}

// NewMissingEntityError creates an error naming the absent endpoint.
func NewMissingEntityError(name string) *MissingEntityError {
	return &MissingEntityError{Name: name}
}

// DuplicateEntityError reports a create against an existing name.
type DuplicateEntityError struct {
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %q already exists", e.Name)
}

func (e *DuplicateEntityError) Is(target error) bool {
	if target == ErrDuplicateEntity {
		return true
	}
	_, ok := target.(*DuplicateEntityError)
	return ok
}

// NewDuplicateEntityError creates a duplicate-name error.
func NewDuplicateEntityError(name string) *DuplicateEntityError {
	return &DuplicateEntityError{Name: name}
}

// CorruptDataError reports a persisted document that failed validation.
type CorruptDataError struct {
	Message string
	Err     error
}

func (e *CorruptDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt graph data: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("corrupt graph data: %s", e.Message)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

func (e *CorruptDataError) Is(target error) bool {
	if target == ErrCorruptData {
		return true
	}
	_, ok := target.(*CorruptDataError)
	return ok
}

// NewCorruptDataError creates a corrupt-data error with an optional cause.
func NewCorruptDataError(message string, err error) *CorruptDataError {
	return &CorruptDataError{Message: message, Err: err}
}

// InvalidArgumentError reports a malformed request value.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

func (e *InvalidArgumentError) Is(target error) bool {
	if target == ErrInvalidArgument {
		return true
	}
	_, ok := target.(*InvalidArgumentError)
	return ok
}

// NewInvalidArgumentError creates an invalid-argument error.
func NewInvalidArgumentError(message string) *InvalidArgumentError {
	return &InvalidArgumentError{Message: message}
}

// IOFailureError wraps a filesystem error from load, persist, or backup.
// Write failures leave the previously persisted file intact.
type IOFailureError struct {
	Op   string // "load", "persist", "backup", "restore"
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("graph %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error { return e.Err }

// NewIOFailureError creates an IO failure error for the given operation.
func NewIOFailureError(op, path string, err error) *IOFailureError {
	return &IOFailureError{Op: op, Path: path, Err: err}
}
