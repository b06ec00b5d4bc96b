package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockCollectionName = "schedulerLocks"

// SchedulerLockDatabase hands out time-bound locks so background jobs run on
// a single instance even when several pods are up
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock attempts to take the named lock. The upsert only matches a
// lock document that is either ours already or expired, so a losing instance
// gets a duplicate key error on jobName and reports false.
func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"jobName": jobName,
		"$or": []bson.M{
			{"instanceId": instanceID},
			{"expiresAt": bson.M{"$lt": now}},
		},
	}
	update := bson.M{"$set": bson.M{
		"jobName":    jobName,
		"instanceId": instanceID,
		"expiresAt":  now.Add(ttl),
		"acquiredAt": now,
	}}
	upsert := true
	_, err := c.db.Collection(schedulerLockCollectionName).UpdateOne(ctx, filter, update, &options.UpdateOptions{Upsert: &upsert})
	if err != nil {
		if IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	filter := bson.M{"jobName": jobName, "instanceId": instanceID}
	update := bson.M{"$set": bson.M{"expiresAt": time.Now().UTC()}}
	_, err := c.db.Collection(schedulerLockCollectionName).UpdateOne(ctx, filter, update)
	return err
}

// EnsureSchedulerLockIndexes creates the unique index on jobName that makes
// concurrent acquisition attempts race safely
func EnsureSchedulerLockIndexes(ctx context.Context, db DatabaseHelper) error {
	unique := true
	_, err := db.Collection(schedulerLockCollectionName).EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "jobName", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}
