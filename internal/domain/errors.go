package domain

import "fmt"

// Error types for consistent error handling across the gateway.

// ErrUpstream is the single failure shape every upstream call resolves to.
// The gateway never surfaces a raw transport error: the original error body
// (plain detail string, field-error list, or opaque payload) has already
// been flattened into Message by the upstream package.
type ErrUpstream struct {
	Operation string // e.g. "fetch summary", "create transaction"
	Status    int    // HTTP status from upstream, 0 for transport failures
	Message   string
}

func (e *ErrUpstream) Error() string {
	return e.Message
}

// ErrValidation indicates client-side form validation failed before any
// network call was made.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrStateNotInitialized indicates selection state was read for a session
// the state manager does not know. This is a wiring defect, not a runtime
// condition, and is surfaced as an unrecoverable configuration error.
type ErrStateNotInitialized struct {
	SessionID string
}

func (e *ErrStateNotInitialized) Error() string {
	return fmt.Sprintf("selection state read outside an established session: %s", e.SessionID)
}

// ErrConversationBusy indicates a question was submitted while a previous
// one is still awaiting its answer. The transcript is left untouched.
type ErrConversationBusy struct{}

func (e *ErrConversationBusy) Error() string {
	return "a question is already awaiting a response"
}

// ErrCircuitOpen indicates the upstream circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrNotFound indicates an upstream resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
