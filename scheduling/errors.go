// Package scheduling owns the one-on-one connection engine: the invite
// ledger, the meeting ledger and the coordinator that turns a pending invite
// into exactly one scheduled meeting. Handlers stay thin and translate the
// typed errors below into HTTP statuses.
package scheduling

import "fmt"

// ValidationError means the input was malformed and nothing was persisted
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// AuthorizationError means the actor is not permitted to perform the
// requested transition on the entity
type AuthorizationError struct {
	ActorID string
	Action  string
	Entity  string
	ID      string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("person %s may not %s %s %s", e.ActorID, e.Action, e.Entity, e.ID)
}

// ConflictError means the entity was not in the state the transition
// requires, including the losing side of a duplicate-accept race
type ConflictError struct {
	Entity   string
	ID       string
	State    string
	Required string
}

func (e *ConflictError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s %s not %s", e.Entity, e.ID, e.Required)
	}
	return fmt.Sprintf("%s %s not %s (status %s)", e.Entity, e.ID, e.Required, e.State)
}

// NotFoundError means the referenced invite, meeting or person does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// TransientError wraps a persistence-layer failure that is safe to retry
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
