package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProposedSlots is the upper bound on candidate slots carried by an invite
const MaxProposedSlots = 3

// InviteStatus represents the lifecycle state of an invite
type InviteStatus string

// Predefined InviteStatus values
const (
	InviteStatusPending   InviteStatus = "pending"
	InviteStatusAccepted  InviteStatus = "accepted"
	InviteStatusDeclined  InviteStatus = "declined"
	InviteStatusCancelled InviteStatus = "cancelled"
)

// ValidInviteStatuses returns all valid InviteStatus values
func ValidInviteStatuses() []InviteStatus {
	return []InviteStatus{
		InviteStatusPending,
		InviteStatusAccepted,
		InviteStatusDeclined,
		InviteStatusCancelled,
	}
}

// IsValid checks if the InviteStatus value is one of the predefined constants
func (s InviteStatus) IsValid() bool {
	for _, validStatus := range ValidInviteStatuses() {
		if s == validStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from this status.
// Every status except pending is terminal for the invite itself.
func (s InviteStatus) IsTerminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined || s == InviteStatusCancelled
}

// String returns the string representation of the InviteStatus
func (s InviteStatus) String() string {
	return string(s)
}

// Role represents the perspective used when listing a person's invites
type Role string

// Predefined Role values
const (
	RoleInviter Role = "inviter"
	RoleInvitee Role = "invitee"
)

// IsValid checks if the Role value is one of the predefined constants
func (r Role) IsValid() bool {
	return r == RoleInviter || r == RoleInvitee
}

// String returns the string representation of the Role
func (r Role) String() string {
	return string(r)
}

// Slot holds a single advisory datetime/mode pair proposed at invite creation.
// Slots carry no independent identity and only exist embedded in an invite.
type Slot struct {
	Datetime time.Time `json:"datetime" bson:"datetime"`
	Mode     Mode      `json:"mode" bson:"mode"`
}

// Invite holds the structure for the invites collection in mongo
type Invite struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	InviterID     string             `json:"inviterId" bson:"inviterId"`
	InviteeID     string             `json:"inviteeId" bson:"inviteeId"`
	Message       string             `json:"message" bson:"message"`
	ProposedSlots []Slot             `json:"proposedSlots" bson:"proposedSlots"`
	Status        InviteStatus       `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// CounterpartID returns the other party of the invite relative to personID
func (i Invite) CounterpartID(personID string) string {
	if personID == i.InviterID {
		return i.InviteeID
	}
	return i.InviterID
}

// IsParty reports whether personID is the inviter or the invitee
func (i Invite) IsParty(personID string) bool {
	return personID == i.InviterID || personID == i.InviteeID
}
