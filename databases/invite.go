package databases

// go generate: mockery --name InviteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meetcircle/connections-api/models"
)

const inviteCollectionName = "invites"

// InviteDatabase contains the methods to use with the invite database
type InviteDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Invite, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invite, error)
	InsertOne(ctx context.Context, invite models.Invite, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error)
}

type inviteDatabase struct {
	db DatabaseHelper
}

// NewInviteDatabase initializes a new instance of invite database with the provided db connection
func NewInviteDatabase(db DatabaseHelper) InviteDatabase {
	return &inviteDatabase{
		db: db,
	}
}

func (c *inviteDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Invite, error) {
	invite := &models.Invite{}
	err := c.db.Collection(inviteCollectionName).FindOne(ctx, filter, opts...).Decode(&invite)
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (c *inviteDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invite, error) {
	var invites []models.Invite
	cur, err := c.db.Collection(inviteCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&invites)
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (c *inviteDatabase) InsertOne(ctx context.Context, invite models.Invite, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(inviteCollectionName).InsertOne(ctx, invite, opts...)
}

func (c *inviteDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error) {
	return c.db.Collection(inviteCollectionName).UpdateOne(ctx, filter, update, opts...)
}
