package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEnumValue is returned when an enum routine meets a value it has no case for.
	ErrInvalidEnumValue = errors.New("invalid enum value")
	// ErrPlaceholder is returned by routines standing in for pairs that failed validation.
	ErrPlaceholder = errors.New("mapping is not available")
	// ErrLengthMismatch is returned when a collection does not fill a fixed-size array exactly.
	ErrLengthMismatch = errors.New("collection length does not match array length")
	// ErrRejected is returned when a user routine reports it could not convert the value.
	ErrRejected = errors.New("conversion rejected")
	// ErrFrozen is returned when a Builder is used after Build.
	ErrFrozen = errors.New("registry builder already built")

	ErrIsNotARoutine         = errors.New("provided function is not a recognizable routine")
	ErrRoutineIsNotAFunction = errors.New("provided routine is not a function")
	ErrDoublePointer         = errors.New("routine function does not support double pointers")
)

// NoMappingError is returned when no routine is registered for a pair.
type NoMappingError struct {
	Source Tag
	Target Tag
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("no mapping defined from %s to %s", e.Source, e.Target)
}

// DuplicateError is returned by Build when a pair was registered twice.
type DuplicateError struct {
	Source Tag
	Target Tag
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("mapping from %s to %s registered more than once", e.Source, e.Target)
}
