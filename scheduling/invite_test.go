package scheduling_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meetcircle/connections-api/databases/mocks"
	"github.com/meetcircle/connections-api/models"
	"github.com/meetcircle/connections-api/scheduling"
)

type serviceMocks struct {
	invites  *mocks.InviteDatabase
	meetings *mocks.MeetingDatabase
	people   *mocks.PersonDatabase
	tx       *mocks.TransactionRunner
}

func newService() (*scheduling.Service, serviceMocks) {
	m := serviceMocks{
		invites:  &mocks.InviteDatabase{},
		meetings: &mocks.MeetingDatabase{},
		people:   &mocks.PersonDatabase{},
		tx:       &mocks.TransactionRunner{},
	}
	return scheduling.NewService(m.invites, m.meetings, m.people, m.tx), m
}

// passthroughTx makes the mocked transaction runner execute the callback
// directly, so collection expectations fire inside the "transaction"
func passthroughTx(tx *mocks.TransactionRunner) {
	tx.On("WithTransaction", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func personDoc(id string) *models.Person {
	return &models.Person{ID: id, Details: models.PersonDetails{Name: id, Username: id}}
}

func validSlots() []scheduling.SlotInput {
	return []scheduling.SlotInput{
		{Datetime: "2025-01-10T10:00:00Z", Mode: models.ModeOnline},
		{Datetime: "2025-01-11T14:00:00Z", Mode: models.ModeOffline},
	}
}

func TestCreateInvite(t *testing.T) {
	svc, m := newService()

	m.people.On("FindOne", mock.Anything, mock.Anything).Return(personDoc("alice"), nil)

	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(primitive.NewObjectID())
	m.invites.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Invite")).Return(insertResult, nil)

	invite, err := svc.CreateInvite(context.Background(), scheduling.CreateInviteInput{
		InviterID:     "alice",
		InviteeID:     "bob",
		Message:       "coffee?",
		ProposedSlots: validSlots(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusPending, invite.Status)
	assert.Equal(t, "alice", invite.InviterID)
	assert.Equal(t, "bob", invite.InviteeID)
	assert.Len(t, invite.ProposedSlots, 2)
	assert.False(t, invite.ID.IsZero())
	assert.False(t, invite.CreatedAt.IsZero())
}

func TestCreateInviteValidation(t *testing.T) {
	svc, _ := newService()

	tests := []struct {
		name  string
		input scheduling.CreateInviteInput
	}{
		{
			name:  "self invite",
			input: scheduling.CreateInviteInput{InviterID: "alice", InviteeID: "alice", ProposedSlots: validSlots()},
		},
		{
			name:  "no slots",
			input: scheduling.CreateInviteInput{InviterID: "alice", InviteeID: "bob"},
		},
		{
			name: "too many slots",
			input: scheduling.CreateInviteInput{InviterID: "alice", InviteeID: "bob", ProposedSlots: []scheduling.SlotInput{
				{Datetime: "2025-01-10T10:00:00Z", Mode: models.ModeOnline},
				{Datetime: "2025-01-11T10:00:00Z", Mode: models.ModeOnline},
				{Datetime: "2025-01-12T10:00:00Z", Mode: models.ModeOnline},
				{Datetime: "2025-01-13T10:00:00Z", Mode: models.ModeOnline},
			}},
		},
		{
			name: "bad mode",
			input: scheduling.CreateInviteInput{InviterID: "alice", InviteeID: "bob", ProposedSlots: []scheduling.SlotInput{
				{Datetime: "2025-01-10T10:00:00Z", Mode: "hybrid"},
			}},
		},
		{
			name: "bad datetime",
			input: scheduling.CreateInviteInput{InviterID: "alice", InviteeID: "bob", ProposedSlots: []scheduling.SlotInput{
				{Datetime: "next tuesday", Mode: models.ModeOnline},
			}},
		},
		{
			name:  "missing inviter",
			input: scheduling.CreateInviteInput{InviteeID: "bob", ProposedSlots: validSlots()},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateInvite(context.Background(), tc.input)
			var validationErr *scheduling.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCreateInviteUnknownPerson(t *testing.T) {
	svc, m := newService()

	m.people.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.CreateInvite(context.Background(), scheduling.CreateInviteInput{
		InviterID:     "ghost",
		InviteeID:     "bob",
		ProposedSlots: validSlots(),
	})
	var notFoundErr *scheduling.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "person", notFoundErr.Entity)
}

func TestListInvitesByRole(t *testing.T) {
	svc, m := newService()

	received := []models.Invite{
		{InviterID: "alice", InviteeID: "bob", Status: models.InviteStatusPending},
		{InviterID: "carol", InviteeID: "bob", Status: models.InviteStatusDeclined},
	}
	m.invites.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(received, nil)

	invites, err := svc.ListInvites(context.Background(), "bob", models.RoleInvitee)
	require.NoError(t, err)
	assert.Len(t, invites, 2)
	for _, invite := range invites {
		assert.Equal(t, "bob", invite.InviteeID)
	}
}

func TestListInvitesEmptyResult(t *testing.T) {
	svc, m := newService()

	m.invites.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	invites, err := svc.ListInvites(context.Background(), "bob", models.RoleInviter)
	require.NoError(t, err)
	assert.NotNil(t, invites)
	assert.Empty(t, invites)
}

func TestListInvitesBadRole(t *testing.T) {
	svc, _ := newService()

	_, err := svc.ListInvites(context.Background(), "bob", "observer")
	var validationErr *scheduling.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func pendingInvite(inviter, invitee string) *models.Invite {
	return &models.Invite{
		ID:        primitive.NewObjectID(),
		InviterID: inviter,
		InviteeID: invitee,
		Status:    models.InviteStatusPending,
	}
}

func matchedResult(n int64) *mocks.UpdateResultHelper {
	res := &mocks.UpdateResultHelper{}
	res.On("MatchedCount").Return(n)
	return res
}

func TestDeclineInvite(t *testing.T) {
	svc, m := newService()
	invite := pendingInvite("alice", "bob")

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)
	m.invites.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedResult(1), nil)

	updated, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "bob", models.InviteStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusDeclined, updated.Status)
}

func TestCancelInvite(t *testing.T) {
	svc, m := newService()
	invite := pendingInvite("alice", "bob")

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)
	m.invites.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedResult(1), nil)

	updated, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "alice", models.InviteStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusCancelled, updated.Status)
}

func TestCancelInviteIsInviterOnly(t *testing.T) {
	svc, m := newService()
	invite := pendingInvite("alice", "carol")

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)

	// carol is the invitee; she can decline but not cancel
	_, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "carol", models.InviteStatusCancelled)
	var authzErr *scheduling.AuthorizationError
	require.ErrorAs(t, err, &authzErr)
	assert.Equal(t, "cancel", authzErr.Action)
}

func TestDeclineInviteIsInviteeOnly(t *testing.T) {
	svc, m := newService()
	invite := pendingInvite("alice", "bob")

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)

	_, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "alice", models.InviteStatusDeclined)
	var authzErr *scheduling.AuthorizationError
	assert.ErrorAs(t, err, &authzErr)
}

func TestUpdateInviteStatusTerminalStateConflicts(t *testing.T) {
	for _, status := range []models.InviteStatus{
		models.InviteStatusAccepted,
		models.InviteStatusDeclined,
		models.InviteStatusCancelled,
	} {
		t.Run(status.String(), func(t *testing.T) {
			svc, m := newService()
			invite := pendingInvite("alice", "bob")
			invite.Status = status

			m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)

			_, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "bob", models.InviteStatusDeclined)
			var conflictErr *scheduling.ConflictError
			assert.ErrorAs(t, err, &conflictErr)
		})
	}
}

func TestUpdateInviteStatusAcceptRejected(t *testing.T) {
	svc, _ := newService()

	_, err := svc.UpdateInviteStatus(context.Background(), primitive.NewObjectID().Hex(), "bob", models.InviteStatusAccepted)
	var validationErr *scheduling.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateInviteStatusLostRace(t *testing.T) {
	svc, m := newService()
	invite := pendingInvite("alice", "bob")

	// the read sees pending but another actor wins the write
	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(invite, nil)
	m.invites.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedResult(0), nil)

	_, err := svc.UpdateInviteStatus(context.Background(), invite.ID.Hex(), "bob", models.InviteStatusDeclined)
	var conflictErr *scheduling.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestUpdateInviteStatusNotFound(t *testing.T) {
	svc, m := newService()

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.UpdateInviteStatus(context.Background(), primitive.NewObjectID().Hex(), "bob", models.InviteStatusDeclined)
	var notFoundErr *scheduling.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateInviteStatusTransient(t *testing.T) {
	svc, m := newService()

	m.invites.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := svc.UpdateInviteStatus(context.Background(), primitive.NewObjectID().Hex(), "bob", models.InviteStatusDeclined)
	var transientErr *scheduling.TransientError
	assert.ErrorAs(t, err, &transientErr)
}
