package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/meetcircle/connections-api/api"
	"github.com/meetcircle/connections-api/config"
	"github.com/meetcircle/connections-api/scheduling"
)

// Meeting exposes the meeting lifecycle over HTTP
type Meeting struct {
	Engine *scheduling.Service
	Hub    *Hub
}

// ListMeetingsHandler returns the meetings where the person is a party
func (m Meeting) ListMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("personId")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	meetings, err := m.Engine.ListMeetings(ctx, personID)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(meetings)
}

// UpdateMeetingHandler reschedules, edits or closes out a scheduled meeting
func (m Meeting) UpdateMeetingHandler(w http.ResponseWriter, r *http.Request) {
	meetingID := mux.Vars(r)["meeting_id"]

	var body struct {
		ActorID string `json:"actorId"`
		scheduling.MeetingPatch
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	meeting, err := m.Engine.UpdateMeeting(ctx, meetingID, body.ActorID, body.MeetingPatch)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	m.Hub.Notify(meeting.CounterpartID(body.ActorID), "meeting.updated", meeting)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(meeting)
}
