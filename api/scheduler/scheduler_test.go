package scheduler_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/meetcircle/connections-api/api/scheduler"
	"github.com/meetcircle/connections-api/databases/mocks"
	"github.com/meetcircle/connections-api/models"
)

func newReminderScheduler() (*scheduler.Scheduler, *mocks.MeetingDatabase, *mocks.PersonDatabase, *mocks.SchedulerLockDatabase) {
	mDB := &mocks.MeetingDatabase{}
	pDB := &mocks.PersonDatabase{}
	lockDB := &mocks.SchedulerLockDatabase{}
	return scheduler.NewScheduler(mDB, pDB, lockDB), mDB, pDB, lockDB
}

func TestSendMeetingRemindersSkipsWithoutLock(t *testing.T) {
	s, mDB, _, lockDB := newReminderScheduler()

	lockDB.On("TryAcquireLock", mock.Anything, "meeting_reminder_job", mock.Anything, 10*time.Minute).
		Return(false, nil)

	s.SendMeetingReminders()

	mDB.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	lockDB.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMeetingRemindersLockError(t *testing.T) {
	s, mDB, _, lockDB := newReminderScheduler()

	lockDB.On("TryAcquireLock", mock.Anything, "meeting_reminder_job", mock.Anything, 10*time.Minute).
		Return(false, errors.New("mocked-error"))

	s.SendMeetingReminders()

	mDB.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestSendMeetingRemindersNothingDue(t *testing.T) {
	s, mDB, _, lockDB := newReminderScheduler()

	lockDB.On("TryAcquireLock", mock.Anything, "meeting_reminder_job", mock.Anything, 10*time.Minute).
		Return(true, nil)
	lockDB.On("ReleaseLock", mock.Anything, "meeting_reminder_job", mock.Anything).Return(nil)

	var captured bson.M
	mDB.On("Find", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(bson.M)
		}).
		Return(nil, nil)

	s.SendMeetingReminders()

	mDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)

	if captured["status"] != models.MeetingStatusScheduled.String() {
		t.Errorf("expected the reminder query to target scheduled meetings, got %v", captured["status"])
	}
	if captured["reminderSent"] != false {
		t.Errorf("expected the reminder query to exclude reminded meetings, got %v", captured["reminderSent"])
	}
}
