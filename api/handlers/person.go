package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/meetcircle/connections-api/api"
	"github.com/meetcircle/connections-api/models"
	"github.com/meetcircle/connections-api/scheduling"
)

// Person exposes the read-only member directory
type Person struct {
	Engine *scheduling.Service
}

// PersonByIDHandler returns one person's public profile
func (p Person) PersonByIDHandler(w http.ResponseWriter, r *http.Request) {
	personID := mux.Vars(r)["person_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	person, err := p.Engine.GetPerson(ctx, personID)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(person.Summary())
}

// ListPeopleHandler filters the directory by name and theme. The filtering is
// stateless; every request hits the person store directly.
func (p Person) ListPeopleHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	theme := r.URL.Query().Get("theme")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	people, err := p.Engine.ListPeople(ctx, q, theme)
	if err != nil {
		engineErrorStatus(w, err)
		return
	}

	summaries := make([]models.PersonSummary, 0, len(people))
	for _, person := range people {
		summaries = append(summaries, person.Summary())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summaries)
}
