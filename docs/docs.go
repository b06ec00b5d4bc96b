// Package docs MeetCircle Connections API.
//
// Documentation of the MeetCircle connections API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://connections-api.meetcircle.app
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/meetcircle/connections-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/invites invites listInvites
// Lists the invites where the person holds the given role.
// responses:
//   200: invitesResponse

// The invites for the person, newest first.
// swagger:response invitesResponse
type invitesResponseWrapper struct {
	// in:body
	Body []models.Invite
}

// swagger:route POST /api/v1/invites/{invite_id}/accept invites acceptInvite
// Accepts a pending invite and creates its meeting.
// responses:
//   201: meetingResponse

// The meeting created from the accepted invite.
// swagger:response meetingResponse
type meetingResponseWrapper struct {
	// in:body
	Body models.Meeting
}

// swagger:route GET /api/v1/people directory listPeople
// Filters the member directory by name and theme.
// responses:
//   200: peopleResponse

// The matching directory entries.
// swagger:response peopleResponse
type peopleResponseWrapper struct {
	// in:body
	Body []models.PersonSummary
}
