package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/api"
	"github.com/meetcircle/connections-api/config"
	"github.com/meetcircle/connections-api/models"
	"github.com/meetcircle/connections-api/scheduling"
)

// Invite exposes the invite lifecycle over HTTP
type Invite struct {
	Engine *scheduling.Service
	Hub    *Hub
	Mailer *Mailer
}

// CreateInviteHandler opens a new pending invite
func (i Invite) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	var in scheduling.CreateInviteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invite, err := i.Engine.CreateInvite(ctx, in)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	i.Hub.Notify(invite.InviteeID, "invite.created", invite)
	go i.notifyInviteeByEmail(invite)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invite)
}

// notifyInviteeByEmail is best-effort; the invite is already persisted.
func (i Invite) notifyInviteeByEmail(invite *models.Invite) {
	if i.Mailer == nil || i.Engine == nil {
		return
	}
	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()

	invitee, err := i.Engine.People.FindOne(ctx, bson.M{"_id": invite.InviteeID})
	if err != nil {
		zap.S().Warnw("invite email skipped, invitee lookup failed", "inviteId", invite.ID.Hex(), "error", err)
		return
	}
	inviter, err := i.Engine.People.FindOne(ctx, bson.M{"_id": invite.InviterID})
	if err != nil {
		zap.S().Warnw("invite email skipped, inviter lookup failed", "inviteId", invite.ID.Hex(), "error", err)
		return
	}
	i.Mailer.SendInviteNotification(invitee, inviter, invite)
}

// ListInvitesHandler returns the invites where the person holds the given role
func (i Invite) ListInvitesHandler(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("personId")
	role := models.Role(r.URL.Query().Get("role"))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invites, err := i.Engine.ListInvites(ctx, personID, role)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(invites)
}

// UpdateInviteStatusHandler declines or cancels a pending invite. Accepting
// goes through AcceptInviteHandler so the meeting is created with it.
func (i Invite) UpdateInviteStatusHandler(w http.ResponseWriter, r *http.Request) {
	inviteID := mux.Vars(r)["invite_id"]

	var body struct {
		ActorID string              `json:"actorId"`
		Status  models.InviteStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invite, err := i.Engine.UpdateInviteStatus(ctx, inviteID, body.ActorID, body.Status)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	i.Hub.Notify(invite.CounterpartID(body.ActorID), "invite."+invite.Status.String(), invite)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(invite)
}

// AcceptInviteHandler locks in the final slot and creates the meeting
func (i Invite) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	var in scheduling.AcceptInviteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	in.InviteID = mux.Vars(r)["invite_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	meeting, err := i.Engine.AcceptInvite(ctx, in)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	i.Hub.Notify(meeting.InviterID, "invite.accepted", meeting)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(meeting)
}
