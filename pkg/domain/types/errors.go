package types

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy shared by all layers. Authorization and validation errors
// are surfaced verbatim to the caller and never retried; ErrUnavailable is
// retryable. Callers match with errors.Is.
var (
	// ErrUnauthenticated indicates no actor was supplied with the request
	ErrUnauthenticated = goerr.New("authentication required")

	// ErrNotAMember indicates the actor has no membership in the project
	ErrNotAMember = goerr.New("not a member of the project")

	// ErrInsufficientRole indicates the actor's role lacks the capability
	ErrInsufficientRole = goerr.New("role does not grant this capability")

	// ErrOwnerProtected indicates an attempt to change or remove the
	// project owner's membership
	ErrOwnerProtected = goerr.New("project owner membership is protected")

	// ErrSelfModification indicates an actor tried to manage their own
	// membership through the management path
	ErrSelfModification = goerr.New("cannot modify own membership")

	// ErrRankTooHigh indicates a hierarchy violation: the target holds an
	// equal or higher rank, or the new role would exceed the actor's rank
	ErrRankTooHigh = goerr.New("target rank is equal or higher than actor rank")

	// ErrValidationFailed indicates field-level validation failure; the
	// wrapping error carries the individual reasons
	ErrValidationFailed = goerr.New("validation failed")

	// ErrNotFound indicates the entity does not exist
	ErrNotFound = goerr.New("not found")

	// ErrConflict indicates an optimistic-concurrency version mismatch
	ErrConflict = goerr.New("entity was modified concurrently")

	// ErrInvariantViolated indicates a domain invariant would be broken,
	// e.g. a second active sprint in a project
	ErrInvariantViolated = goerr.New("domain invariant violated")

	// ErrUnavailable indicates a collaborator timeout or failure; the
	// operation may be retried
	ErrUnavailable = goerr.New("backing service unavailable")
)
