package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchedulerLock holds the structure for the schedulerLocks collection in
// mongo, used so that only one instance runs a given background job at a time
type SchedulerLock struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	JobName    string             `bson:"jobName"`
	InstanceID string             `bson:"instanceId"`
	ExpiresAt  time.Time          `bson:"expiresAt"`
	AcquiredAt time.Time          `bson:"acquiredAt"`
}
