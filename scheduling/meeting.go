package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/databases"
	"github.com/meetcircle/connections-api/models"
)

// MeetingPatch carries the optional fields of a meeting update. A nil field
// means "leave it alone".
type MeetingPatch struct {
	FinalDatetime *string               `json:"finalDatetime"`
	Mode          *models.Mode          `json:"mode"`
	MeetingURL    *string               `json:"meetingUrl"`
	LocationText  *string               `json:"locationText"`
	Status        *models.MeetingStatus `json:"status"`
}

func (p MeetingPatch) isEmpty() bool {
	return p.FinalDatetime == nil && p.Mode == nil && p.MeetingURL == nil && p.LocationText == nil && p.Status == nil
}

// ListMeetings returns every meeting where the person is inviter or invitee,
// all statuses, soonest final datetime last. Counterpart ids ride on the
// meeting document itself.
func (s *Service) ListMeetings(ctx context.Context, personID string) ([]models.Meeting, error) {
	if personID == "" {
		return nil, &ValidationError{Reason: "personId is required"}
	}

	filter := bson.M{"$or": []bson.M{
		{"inviterId": personID},
		{"inviteeId": personID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "finalDatetime", Value: -1}})
	meetings, err := s.Meetings.Find(ctx, filter, opts)
	if err != nil {
		return nil, &TransientError{Op: "list meetings", Err: err}
	}
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	return meetings, nil
}

// UpdateMeeting applies a reschedule edit or a terminal transition. Either
// counterpart may act. Field edits only apply while the meeting is still
// scheduled; the status predicate on the write keeps a stale read from
// clobbering a concurrent completion or cancellation.
func (s *Service) UpdateMeeting(ctx context.Context, meetingID, actorID string, patch MeetingPatch) (*models.Meeting, error) {
	id, err := primitive.ObjectIDFromHex(meetingID)
	if err != nil {
		return nil, &ValidationError{Reason: "meetingId is not a valid id"}
	}
	if actorID == "" {
		return nil, &ValidationError{Reason: "actorId is required"}
	}
	if patch.isEmpty() {
		return nil, &ValidationError{Reason: "no fields to update"}
	}

	set := bson.M{}
	if patch.FinalDatetime != nil {
		finalDatetime, err := time.Parse(time.RFC3339, *patch.FinalDatetime)
		if err != nil {
			return nil, &ValidationError{Reason: "finalDatetime is not a valid RFC3339 timestamp"}
		}
		set["finalDatetime"] = finalDatetime.UTC()
	}
	if patch.Mode != nil {
		if !patch.Mode.IsValid() {
			return nil, &ValidationError{Reason: "mode must be online or offline"}
		}
		set["mode"] = *patch.Mode
	}
	if patch.MeetingURL != nil {
		set["meetingUrl"] = *patch.MeetingURL
	}
	if patch.LocationText != nil {
		set["locationText"] = *patch.LocationText
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.MeetingStatusCompleted, models.MeetingStatusCancelled:
			set["status"] = *patch.Status
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("status must be %s or %s", models.MeetingStatusCompleted, models.MeetingStatusCancelled)}
		}
	}

	meeting, err := s.Meetings.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if databases.IsNoDocumentsError(err) {
			return nil, &NotFoundError{Entity: "meeting", ID: meetingID}
		}
		return nil, &TransientError{Op: "lookup meeting", Err: err}
	}

	if !meeting.IsParty(actorID) {
		return nil, &AuthorizationError{ActorID: actorID, Action: "update", Entity: "meeting", ID: meetingID}
	}
	if meeting.Status != models.MeetingStatusScheduled {
		return nil, &ConflictError{Entity: "meeting", ID: meetingID, State: meeting.Status.String(), Required: "scheduled"}
	}

	set["updatedAt"] = time.Now().UTC()
	filter := bson.M{"_id": id, "status": models.MeetingStatusScheduled}
	res, err := s.Meetings.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, &TransientError{Op: "update meeting", Err: err}
	}
	if res.MatchedCount() == 0 {
		return nil, &ConflictError{Entity: "meeting", ID: meetingID, Required: "scheduled"}
	}

	applyMeetingPatch(meeting, set)
	zap.S().Infow("meeting updated",
		"meetingId", meetingID,
		"actorId", actorID,
		"status", meeting.Status,
	)
	return meeting, nil
}

func applyMeetingPatch(meeting *models.Meeting, set bson.M) {
	if v, ok := set["finalDatetime"].(time.Time); ok {
		meeting.FinalDatetime = v
	}
	if v, ok := set["mode"].(models.Mode); ok {
		meeting.Mode = v
	}
	if v, ok := set["meetingUrl"].(string); ok {
		meeting.MeetingURL = v
	}
	if v, ok := set["locationText"].(string); ok {
		meeting.LocationText = v
	}
	if v, ok := set["status"].(models.MeetingStatus); ok {
		meeting.Status = v
	}
	if v, ok := set["updatedAt"].(time.Time); ok {
		meeting.UpdatedAt = v
	}
}
