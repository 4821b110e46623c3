package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the failure kinds callers can branch on.
// Every error returned by a service wraps exactly one of them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness constraint rejected a write.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates caller input violates a stated invariant,
	// including references to rows that do not exist.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFormat indicates stored or supplied data could not be decoded:
	// malformed JSON metadata, a vector payload whose length is not a
	// multiple of 4, or a corrupt hex digest.
	ErrFormat = errors.New("malformed data")

	// ErrStore indicates the persistence layer failed (I/O, busy database,
	// aborted transaction). Retrying may succeed.
	ErrStore = errors.New("store failure")

	// ErrNotImplemented indicates functionality is not available
	// because a collaborator was not configured.
	ErrNotImplemented = errors.New("not implemented")
)

// Error carries the operation, entity and key that failed along with its kind.
type Error struct {
	// Op is the operation name, e.g. "create_chunks".
	Op string

	// Entity is the entity kind involved, e.g. "document".
	Entity string

	// Key identifies the row, e.g. "id=3" or "hash=5d41...".
	Key string

	// Kind is one of the sentinel errors above.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

// E builds an *Error. err may be nil.
func E(op, entity, key string, kind, err error) *Error {
	return &Error{Op: op, Entity: entity, Key: key, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil && !errors.Is(e.Kind, e.Err) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the sentinel kind of err, or ErrStore for unclassified errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) && de.Kind != nil {
		return de.Kind
	}
	for _, kind := range []error{ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrFormat, ErrNotImplemented} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrStore
}

// KindName returns a stable machine-readable name for the kind of err.
func KindName(err error) string {
	switch KindOf(err) {
	case nil:
		return ""
	case ErrNotFound:
		return "not_found"
	case ErrAlreadyExists:
		return "constraint_violation"
	case ErrInvalidInput:
		return "validation"
	case ErrFormat:
		return "format"
	case ErrNotImplemented:
		return "not_implemented"
	default:
		return "store"
	}
}

// IsRetryable reports whether retrying the failed operation may succeed.
func IsRetryable(err error) bool {
	return err != nil && KindOf(err) == ErrStore
}

// Invalid is shorthand for a validation error with a formatted cause.
func Invalid(op, entity, format string, args ...any) *Error {
	return E(op, entity, "", ErrInvalidInput, fmt.Errorf(format, args...))
}
