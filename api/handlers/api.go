package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/api"
	"github.com/meetcircle/connections-api/config"
	"github.com/meetcircle/connections-api/databases"
	"github.com/meetcircle/connections-api/models"
	"github.com/meetcircle/connections-api/scheduling"
)

// requestTimeout caps how long any single request may run
const requestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *Hub
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewPersonDatabase(a.dbHelper), TicketSecret: a.Config.WSTicketSecret}
	m.SetupGoGuardian()

	engine := scheduling.NewService(
		databases.NewInviteDatabase(a.dbHelper),
		databases.NewMeetingDatabase(a.dbHelper),
		databases.NewPersonDatabase(a.dbHelper),
		databases.NewTransactionRunner(a.dbHelper),
	)

	if a.Hub == nil {
		a.Hub = NewHub(a.Config.WSTicketSecret)
	}
	mailer := &Mailer{APIKey: a.Config.SendgridAPIKey}

	i := Invite{Engine: engine, Hub: a.Hub, Mailer: mailer}
	mt := Meeting{Engine: engine, Hub: a.Hub}
	p := Person{Engine: engine}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket connections are long-lived, so the request timeout stays off
	// this route
	r.Handle("/ws/connections", http.HandlerFunc(a.Hub.ConnectionsHandler)).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(requestTimeout))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/ws-ticket", api.Middleware(http.HandlerFunc(m.CreateWSTicket))).Methods("GET")

	apiCreate.Handle("/invites", api.Middleware(http.HandlerFunc(i.CreateInviteHandler))).Methods("POST")
	apiCreate.Handle("/invites", api.Middleware(http.HandlerFunc(i.ListInvitesHandler))).Methods("GET")
	apiCreate.Handle("/invites/{invite_id}/status", api.Middleware(http.HandlerFunc(i.UpdateInviteStatusHandler))).Methods("PUT")
	apiCreate.Handle("/invites/{invite_id}/accept", api.Middleware(http.HandlerFunc(i.AcceptInviteHandler))).Methods("POST")

	apiCreate.Handle("/meetings", api.Middleware(http.HandlerFunc(mt.ListMeetingsHandler))).Methods("GET")
	apiCreate.Handle("/meetings/{meeting_id}", api.Middleware(http.HandlerFunc(mt.UpdateMeetingHandler))).Methods("PUT")

	apiCreate.Handle("/person/{person_id}", api.Middleware(http.HandlerFunc(p.PersonByIDHandler))).Methods("GET")
	apiCreate.Handle("/people", api.Middleware(http.HandlerFunc(p.ListPeopleHandler))).Methods("GET")

	debug := r.PathPrefix("/debug/metrics").Subrouter()
	debug.Handle("", api.Middleware(http.HandlerFunc(MetricsSummaryHandler))).Methods("GET")
	debug.Handle("/routes", api.Middleware(http.HandlerFunc(MetricsRoutesHandler))).Methods("GET")
	debug.Handle("/traces", api.Middleware(http.HandlerFunc(MetricsTracesHandler))).Methods("GET")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("connections-api has connected to the database")

	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()
	if err := databases.NewMeetingDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		zap.S().With(err).Error("failed to ensure meeting indexes")
		return err
	}
	if err := databases.EnsureSchedulerLockIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to ensure scheduler lock indexes")
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// DBHelper exposes the connected database helper so main can wire the
// background scheduler against the same connection.
func (a *App) DBHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
