package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a referenced component does not exist in the layout.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates a component id is already present in the layout.
	// Ids are generated, so this signals a broken invariant rather than user error.
	ErrDuplicateID = errors.New("duplicate component id")

	// ErrUnsupportedKind indicates a component kind outside the closed set.
	ErrUnsupportedKind = errors.New("unsupported component kind")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPatch indicates a config patch that does not fit the component's schema.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrAlreadyExists indicates an entity is already registered.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Persistence Errors.

	// ErrNoLayout indicates no custom layout has ever been saved for a restaurant.
	// It is a signal, not a failure: callers fall back to the default page.
	ErrNoLayout = errors.New("no saved layout")

	// ErrPersistenceFailure indicates a save or load against the backend failed.
	// In-memory editing state is never affected; retry at the user's discretion.
	ErrPersistenceFailure = errors.New("persistence failure")
)
