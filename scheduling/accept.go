package scheduling

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/databases"
	"github.com/meetcircle/connections-api/models"
)

// AcceptInviteInput carries the invitee's final choice. The final datetime
// and mode do not have to match any proposed slot; the proposals are advisory.
type AcceptInviteInput struct {
	InviteID      string      `json:"-"`
	ActorID       string      `json:"actorId"`
	FinalDatetime string      `json:"finalDatetime"`
	Mode          models.Mode `json:"mode"`
	MeetingURL    string      `json:"meetingUrl"`
	LocationText  string      `json:"locationText"`
}

// AcceptInvite moves a pending invite to accepted and creates its meeting in
// one transaction. The status predicate on the invite update plus the unique
// index on meetings.inviteId guarantee that of two concurrent accepts exactly
// one wins; the other gets a conflict and no partial writes survive.
func (s *Service) AcceptInvite(ctx context.Context, in AcceptInviteInput) (*models.Meeting, error) {
	id, err := primitive.ObjectIDFromHex(in.InviteID)
	if err != nil {
		return nil, &ValidationError{Reason: "inviteId is not a valid id"}
	}
	if in.ActorID == "" {
		return nil, &ValidationError{Reason: "actorId is required"}
	}
	finalDatetime, err := time.Parse(time.RFC3339, in.FinalDatetime)
	if err != nil {
		return nil, &ValidationError{Reason: "finalDatetime is not a valid RFC3339 timestamp"}
	}
	if !in.Mode.IsValid() {
		return nil, &ValidationError{Reason: "mode must be online or offline"}
	}

	invite, err := s.Invites.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if databases.IsNoDocumentsError(err) {
			return nil, &NotFoundError{Entity: "invite", ID: in.InviteID}
		}
		return nil, &TransientError{Op: "lookup invite", Err: err}
	}

	if in.ActorID != invite.InviteeID {
		return nil, &AuthorizationError{ActorID: in.ActorID, Action: "accept", Entity: "invite", ID: in.InviteID}
	}
	if invite.Status != models.InviteStatusPending {
		return nil, &ConflictError{Entity: "invite", ID: in.InviteID, State: invite.Status.String(), Required: "pending"}
	}

	// mode/url pairing is a soft rule: log, never reject
	if in.Mode == models.ModeOnline && in.MeetingURL == "" {
		zap.S().Warnw("accepting online meeting without a meeting url", "inviteId", in.InviteID)
	}
	if in.Mode == models.ModeOffline && in.LocationText == "" {
		zap.S().Warnw("accepting offline meeting without a location", "inviteId", in.InviteID)
	}

	now := time.Now().UTC()
	meeting := models.Meeting{
		InviteID:      id,
		InviterID:     invite.InviterID,
		InviteeID:     invite.InviteeID,
		FinalDatetime: finalDatetime.UTC(),
		Mode:          in.Mode,
		MeetingURL:    in.MeetingURL,
		LocationText:  in.LocationText,
		Status:        models.MeetingStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.Tx.WithTransaction(ctx, func(sc context.Context) error {
		filter := bson.M{"_id": id, "status": models.InviteStatusPending}
		update := bson.M{"$set": bson.M{"status": models.InviteStatusAccepted}}
		res, err := s.Invites.UpdateOne(sc, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount() == 0 {
			return &ConflictError{Entity: "invite", ID: in.InviteID, Required: "pending"}
		}

		insertRes, err := s.Meetings.InsertOne(sc, meeting)
		if err != nil {
			if databases.IsDuplicateKeyError(err) {
				// a concurrent accept already backed this invite with a meeting
				return &ConflictError{Entity: "invite", ID: in.InviteID, Required: "pending"}
			}
			return err
		}
		if insertedID, ok := insertRes.Decode().(primitive.ObjectID); ok {
			meeting.ID = insertedID
		}
		return nil
	})
	if err != nil {
		if IsEngineError(err) {
			return nil, err
		}
		return nil, &TransientError{Op: "accept invite", Err: err}
	}

	zap.S().Infow("invite accepted",
		"inviteId", in.InviteID,
		"meetingId", meeting.ID.Hex(),
		"finalDatetime", meeting.FinalDatetime,
		"mode", meeting.Mode,
	)
	return &meeting, nil
}
