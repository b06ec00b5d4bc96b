package databases

// go generate: mockery --name MeetingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meetcircle/connections-api/models"
)

const meetingCollectionName = "meetings"

// MeetingDatabase contains the methods to use with the meeting database
type MeetingDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Meeting, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Meeting, error)
	InsertOne(ctx context.Context, meeting models.Meeting, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error)
	EnsureIndexes(ctx context.Context) error
}

type meetingDatabase struct {
	db DatabaseHelper
}

// NewMeetingDatabase initializes a new instance of meeting database with the provided db connection
func NewMeetingDatabase(db DatabaseHelper) MeetingDatabase {
	return &meetingDatabase{
		db: db,
	}
}

func (c *meetingDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	err := c.db.Collection(meetingCollectionName).FindOne(ctx, filter, opts...).Decode(&meeting)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (c *meetingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Meeting, error) {
	var meetings []models.Meeting
	cur, err := c.db.Collection(meetingCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&meetings)
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *meetingDatabase) InsertOne(ctx context.Context, meeting models.Meeting, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(meetingCollectionName).InsertOne(ctx, meeting, opts...)
}

func (c *meetingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultHelper, error) {
	return c.db.Collection(meetingCollectionName).UpdateOne(ctx, filter, update, opts...)
}

// EnsureIndexes creates the unique index on inviteId that enforces the
// at-most-one-meeting-per-invite invariant at the storage layer
func (c *meetingDatabase) EnsureIndexes(ctx context.Context) error {
	unique := true
	_, err := c.db.Collection(meetingCollectionName).EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "inviteId", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}
