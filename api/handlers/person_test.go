package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meetcircle/connections-api/api/handlers"
	"github.com/meetcircle/connections-api/models"
)

func TestPerson_PersonByIDHandler(t *testing.T) {
	engine, m := newEngine()

	m.people.On("FindOne", mock.Anything, mock.Anything).Return(&models.Person{
		ID: "alice",
		Details: models.PersonDetails{
			Name:      "Alice Chen",
			Username:  "alice",
			Interests: []string{"product", "hiking"},
		},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/person/alice", nil)
	req = mux.SetURLVars(req, map[string]string{"person_id": "alice"})

	rr := httptest.NewRecorder()
	h := handlers.Person{Engine: engine}
	http.HandlerFunc(h.PersonByIDHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var summary models.PersonSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, "Alice Chen", summary.Name)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestPerson_PersonByIDHandlerNotFound(t *testing.T) {
	engine, m := newEngine()

	m.people.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	req, _ := http.NewRequest("GET", "/api/v1/person/ghost", nil)
	req = mux.SetURLVars(req, map[string]string{"person_id": "ghost"})

	rr := httptest.NewRecorder()
	h := handlers.Person{Engine: engine}
	http.HandlerFunc(h.PersonByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPerson_ListPeopleHandler(t *testing.T) {
	engine, m := newEngine()

	m.people.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Person{
		{ID: "alice", Details: models.PersonDetails{Name: "Alice Chen", Expertise: []string{"go"}}},
		{ID: "carol", Details: models.PersonDetails{Name: "Carol Wu", Interests: []string{"go"}}},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/people?theme=go", nil)

	rr := httptest.NewRecorder()
	h := handlers.Person{Engine: engine}
	http.HandlerFunc(h.ListPeopleHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var summaries []models.PersonSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 2)
}

func TestPerson_ListPeopleHandlerEmpty(t *testing.T) {
	engine, m := newEngine()

	m.people.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/api/v1/people", nil)

	rr := httptest.NewRecorder()
	h := handlers.Person{Engine: engine}
	http.HandlerFunc(h.ListPeopleHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}
