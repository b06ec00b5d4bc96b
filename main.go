package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/api/handlers"
	"github.com/meetcircle/connections-api/api/scheduler"
	"github.com/meetcircle/connections-api/config"
	"github.com/meetcircle/connections-api/databases"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database and router
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(
		databases.NewMeetingDatabase(a.DBHelper()),
		databases.NewPersonDatabase(a.DBHelper()),
		databases.NewSchedulerLockDatabase(a.DBHelper()),
	)
	s.Start()
	defer s.Stop()

	zap.S().Infow("connections-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
