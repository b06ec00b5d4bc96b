package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

// Predefined MeetingStatus values
const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// ValidMeetingStatuses returns all valid MeetingStatus values
func ValidMeetingStatuses() []MeetingStatus {
	return []MeetingStatus{
		MeetingStatusScheduled,
		MeetingStatusCompleted,
		MeetingStatusCancelled,
	}
}

// IsValid checks if the MeetingStatus value is one of the predefined constants
func (s MeetingStatus) IsValid() bool {
	for _, validStatus := range ValidMeetingStatuses() {
		if s == validStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from this status
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusCancelled
}

// String returns the string representation of the MeetingStatus
func (s MeetingStatus) String() string {
	return string(s)
}

// Meeting holds the structure for the meetings collection in mongo.
// InviterID and InviteeID are copied from the owning invite when the meeting
// is created so that a person's meetings resolve with a single query. The
// inviteId field carries a unique index; it is what makes a duplicate accept
// lose instead of producing a second meeting.
type Meeting struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	InviteID      primitive.ObjectID `json:"inviteId" bson:"inviteId"`
	InviterID     string             `json:"inviterId" bson:"inviterId"`
	InviteeID     string             `json:"inviteeId" bson:"inviteeId"`
	FinalDatetime time.Time          `json:"finalDatetime" bson:"finalDatetime"`
	Mode          Mode               `json:"mode" bson:"mode"`
	MeetingURL    string             `json:"meetingUrl,omitempty" bson:"meetingUrl,omitempty"`
	LocationText  string             `json:"locationText,omitempty" bson:"locationText,omitempty"`
	Status        MeetingStatus      `json:"status" bson:"status"`
	ReminderSent  bool               `json:"-" bson:"reminderSent"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CounterpartID returns the other party of the meeting relative to personID
func (m Meeting) CounterpartID(personID string) string {
	if personID == m.InviterID {
		return m.InviteeID
	}
	return m.InviterID
}

// IsParty reports whether personID is the inviter or the invitee
func (m Meeting) IsParty(personID string) bool {
	return personID == m.InviterID || personID == m.InviteeID
}
