package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meetcircle/connections-api/api/handlers"
	"github.com/meetcircle/connections-api/databases/mocks"
	"github.com/meetcircle/connections-api/models"
)

func scheduledMeeting(id primitive.ObjectID) *models.Meeting {
	now := time.Now().UTC()
	return &models.Meeting{
		ID:            id,
		InviteID:      primitive.NewObjectID(),
		InviterID:     "alice",
		InviteeID:     "bob",
		FinalDatetime: time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC),
		Mode:          models.ModeOnline,
		MeetingURL:    "https://meet.example.com/xyz",
		Status:        models.MeetingStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestMeeting_ListMeetingsHandler(t *testing.T) {
	engine, m := newEngine()

	m.meetings.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Meeting{*scheduledMeeting(primitive.NewObjectID())}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/meetings?personId=alice", nil)

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.ListMeetingsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var meetings []models.Meeting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meetings))
	require.Len(t, meetings, 1)
	assert.Equal(t, "bob", meetings[0].InviteeID)
}

func TestMeeting_ListMeetingsHandlerMissingPerson(t *testing.T) {
	engine, _ := newEngine()

	req, _ := http.NewRequest("GET", "/api/v1/meetings", nil)

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.ListMeetingsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeeting_UpdateMeetingHandlerReschedule(t *testing.T) {
	engine, m := newEngine()

	meetingID := primitive.NewObjectID()
	m.meetings.On("FindOne", mock.Anything, mock.Anything).Return(scheduledMeeting(meetingID), nil)

	updated := &mocks.UpdateResultHelper{}
	updated.On("MatchedCount").Return(int64(1))
	m.meetings.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(updated, nil)

	body, _ := json.Marshal(map[string]string{
		"actorId":       "bob",
		"finalDatetime": "2025-01-14T16:00:00Z",
	})
	req, _ := http.NewRequest("PUT", "/api/v1/meetings/"+meetingID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"meeting_id": meetingID.Hex()})

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.UpdateMeetingHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var meeting models.Meeting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meeting))
	assert.Equal(t, time.Date(2025, 1, 14, 16, 0, 0, 0, time.UTC), meeting.FinalDatetime)
	assert.Equal(t, models.MeetingStatusScheduled, meeting.Status)
}

func TestMeeting_UpdateMeetingHandlerOutsiderForbidden(t *testing.T) {
	engine, m := newEngine()

	meetingID := primitive.NewObjectID()
	m.meetings.On("FindOne", mock.Anything, mock.Anything).Return(scheduledMeeting(meetingID), nil)

	body, _ := json.Marshal(map[string]string{
		"actorId": "mallory",
		"status":  "cancelled",
	})
	req, _ := http.NewRequest("PUT", "/api/v1/meetings/"+meetingID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"meeting_id": meetingID.Hex()})

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.UpdateMeetingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMeeting_UpdateMeetingHandlerCompletedConflict(t *testing.T) {
	engine, m := newEngine()

	meetingID := primitive.NewObjectID()
	completed := scheduledMeeting(meetingID)
	completed.Status = models.MeetingStatusCompleted
	m.meetings.On("FindOne", mock.Anything, mock.Anything).Return(completed, nil)

	body, _ := json.Marshal(map[string]string{
		"actorId": "alice",
		"status":  "cancelled",
	})
	req, _ := http.NewRequest("PUT", "/api/v1/meetings/"+meetingID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"meeting_id": meetingID.Hex()})

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.UpdateMeetingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "not scheduled")
}

func TestMeeting_UpdateMeetingHandlerBadID(t *testing.T) {
	engine, _ := newEngine()

	body, _ := json.Marshal(map[string]string{"actorId": "alice", "status": "cancelled"})
	req, _ := http.NewRequest("PUT", "/api/v1/meetings/1234", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"meeting_id": "1234"})

	rr := httptest.NewRecorder()
	h := handlers.Meeting{Engine: engine}
	http.HandlerFunc(h.UpdateMeetingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
