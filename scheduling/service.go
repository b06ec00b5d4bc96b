package scheduling

import (
	"errors"

	"github.com/meetcircle/connections-api/databases"
)

// Service is the scheduling coordinator. It owns both ledgers: handlers never
// touch the invite or meeting collections except through it.
type Service struct {
	Invites  databases.InviteDatabase
	Meetings databases.MeetingDatabase
	People   databases.PersonDatabase
	Tx       databases.TransactionRunner
}

// NewService wires the coordinator with its collections and transaction support
func NewService(invites databases.InviteDatabase, meetings databases.MeetingDatabase, people databases.PersonDatabase, tx databases.TransactionRunner) *Service {
	return &Service{
		Invites:  invites,
		Meetings: meetings,
		People:   people,
		Tx:       tx,
	}
}

// IsEngineError reports whether err already carries engine semantics, as
// opposed to an infrastructure failure that should surface as transient
func IsEngineError(err error) bool {
	var (
		validation *ValidationError
		authz      *AuthorizationError
		conflict   *ConflictError
		notFound   *NotFoundError
		transient  *TransientError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &authz) ||
		errors.As(err, &conflict) ||
		errors.As(err, &notFound) ||
		errors.As(err, &transient)
}
