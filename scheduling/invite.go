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

// SlotInput carries one proposed slot as submitted by the client
type SlotInput struct {
	Datetime string      `json:"datetime"`
	Mode     models.Mode `json:"mode"`
}

// CreateInviteInput carries everything needed to open an invite
type CreateInviteInput struct {
	InviterID     string      `json:"inviterId"`
	InviteeID     string      `json:"inviteeId"`
	Message       string      `json:"message"`
	ProposedSlots []SlotInput `json:"proposedSlots"`
}

// CreateInvite validates the request, confirms both persons exist and inserts
// a pending invite. Multiple pending invites between the same pair are fine.
func (s *Service) CreateInvite(ctx context.Context, in CreateInviteInput) (*models.Invite, error) {
	if in.InviterID == "" || in.InviteeID == "" {
		return nil, &ValidationError{Reason: "inviterId and inviteeId are required"}
	}
	if in.InviterID == in.InviteeID {
		return nil, &ValidationError{Reason: "cannot invite yourself"}
	}
	if len(in.ProposedSlots) == 0 {
		return nil, &ValidationError{Reason: "at least one proposed slot is required"}
	}
	if len(in.ProposedSlots) > models.MaxProposedSlots {
		return nil, &ValidationError{Reason: fmt.Sprintf("at most %d proposed slots are allowed", models.MaxProposedSlots)}
	}

	slots := make([]models.Slot, 0, len(in.ProposedSlots))
	for i, slot := range in.ProposedSlots {
		datetime, err := time.Parse(time.RFC3339, slot.Datetime)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("proposedSlots[%d].datetime is not a valid RFC3339 timestamp", i)}
		}
		if !slot.Mode.IsValid() {
			return nil, &ValidationError{Reason: fmt.Sprintf("proposedSlots[%d].mode must be one of %v", i, models.ValidModes())}
		}
		slots = append(slots, models.Slot{Datetime: datetime.UTC(), Mode: slot.Mode})
	}

	for _, personID := range []string{in.InviterID, in.InviteeID} {
		if _, err := s.People.FindOne(ctx, bson.M{"_id": personID}); err != nil {
			if databases.IsNoDocumentsError(err) {
				return nil, &NotFoundError{Entity: "person", ID: personID}
			}
			return nil, &TransientError{Op: "lookup person", Err: err}
		}
	}

	invite := models.Invite{
		InviterID:     in.InviterID,
		InviteeID:     in.InviteeID,
		Message:       in.Message,
		ProposedSlots: slots,
		Status:        models.InviteStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	res, err := s.Invites.InsertOne(ctx, invite)
	if err != nil {
		return nil, &TransientError{Op: "insert invite", Err: err}
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		invite.ID = id
	}

	zap.S().Infow("invite created",
		"inviteId", invite.ID.Hex(),
		"inviterId", invite.InviterID,
		"inviteeId", invite.InviteeID,
		"slots", len(invite.ProposedSlots),
	)
	return &invite, nil
}

// ListInvites returns every invite where the person holds the given role,
// newest first, terminal states included so history stays visible
func (s *Service) ListInvites(ctx context.Context, personID string, role models.Role) ([]models.Invite, error) {
	if personID == "" {
		return nil, &ValidationError{Reason: "personId is required"}
	}
	if !role.IsValid() {
		return nil, &ValidationError{Reason: "role must be inviter or invitee"}
	}

	field := "inviterId"
	if role == models.RoleInvitee {
		field = "inviteeId"
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	invites, err := s.Invites.Find(ctx, bson.M{field: personID}, opts)
	if err != nil {
		return nil, &TransientError{Op: "list invites", Err: err}
	}
	if invites == nil {
		invites = []models.Invite{}
	}
	return invites, nil
}

// UpdateInviteStatus declines or cancels a pending invite. Declining is
// invitee-only, cancelling is inviter-only; accepted is only ever set by
// AcceptInvite. The status predicate in the update filter makes the loser of
// a concurrent transition attempt come back as a conflict, never a rewrite.
func (s *Service) UpdateInviteStatus(ctx context.Context, inviteID, actorID string, target models.InviteStatus) (*models.Invite, error) {
	id, err := primitive.ObjectIDFromHex(inviteID)
	if err != nil {
		return nil, &ValidationError{Reason: "inviteId is not a valid id"}
	}
	if actorID == "" {
		return nil, &ValidationError{Reason: "actorId is required"}
	}

	switch target {
	case models.InviteStatusDeclined, models.InviteStatusCancelled:
	case models.InviteStatusAccepted:
		return nil, &ValidationError{Reason: "accepting an invite requires a final datetime and mode; use the accept operation"}
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("status must be %s or %s", models.InviteStatusDeclined, models.InviteStatusCancelled)}
	}

	invite, err := s.Invites.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if databases.IsNoDocumentsError(err) {
			return nil, &NotFoundError{Entity: "invite", ID: inviteID}
		}
		return nil, &TransientError{Op: "lookup invite", Err: err}
	}

	if target == models.InviteStatusDeclined && actorID != invite.InviteeID {
		return nil, &AuthorizationError{ActorID: actorID, Action: "decline", Entity: "invite", ID: inviteID}
	}
	if target == models.InviteStatusCancelled && actorID != invite.InviterID {
		return nil, &AuthorizationError{ActorID: actorID, Action: "cancel", Entity: "invite", ID: inviteID}
	}

	if invite.Status != models.InviteStatusPending {
		return nil, &ConflictError{Entity: "invite", ID: inviteID, State: invite.Status.String(), Required: "pending"}
	}

	filter := bson.M{"_id": id, "status": models.InviteStatusPending}
	update := bson.M{"$set": bson.M{"status": target}}
	res, err := s.Invites.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, &TransientError{Op: "update invite status", Err: err}
	}
	if res.MatchedCount() == 0 {
		// someone else moved the invite out of pending between our read and write
		return nil, &ConflictError{Entity: "invite", ID: inviteID, Required: "pending"}
	}

	invite.Status = target
	zap.S().Infow("invite status updated",
		"inviteId", inviteID,
		"status", target,
		"actorId", actorID,
	)
	return invite, nil
}
