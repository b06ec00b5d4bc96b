package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/databases"
	"github.com/meetcircle/connections-api/logging"
	"github.com/meetcircle/connections-api/models"
	templates "github.com/meetcircle/connections-api/templates/html"
)

const reminderLockName = "meeting_reminder_job"

// Scheduler runs the periodic background jobs: currently the daily meeting
// reminder emails. A distributed lock keeps the job single-flight when more
// than one instance is running.
type Scheduler struct {
	cron       *cron.Cron
	MDB        databases.MeetingDatabase
	PDB        databases.PersonDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
	log        *zap.SugaredLogger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	mDB databases.MeetingDatabase,
	pDB databases.PersonDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		MDB:        mDB,
		PDB:        pDB,
		LockDB:     lockDB,
		instanceID: instanceID,
		log:        logging.New(),
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Remind both parties of meetings happening within 24h, daily at 8 AM UTC
	_, err := s.cron.AddFunc("0 8 * * *", s.SendMeetingReminders)
	if err != nil {
		s.log.Errorw("failed to register meeting reminder job", "error", err)
	}

	s.cron.Start()
	s.log.Info("Meeting reminder scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Meeting reminder scheduler stopped")
}

// SendMeetingReminders emails both parties of every scheduled meeting that
// starts within the next 24 hours and has not been reminded yet. The
// reminderSent flag on the meeting keeps the job idempotent across runs.
func (s *Scheduler) SendMeetingReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, reminderLockName, s.instanceID, 10*time.Minute)
	if err != nil {
		s.log.Errorw("failed to acquire lock for meeting reminder job", "error", err)
		return
	}
	if !acquired {
		s.log.Debug("Meeting reminder job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, reminderLockName, s.instanceID)

	now := time.Now().UTC()
	cutoff := now.Add(24 * time.Hour)

	s.log.Infow("Running meeting reminder job", "instance", s.instanceID)

	filter := bson.M{
		"status":       models.MeetingStatusScheduled.String(),
		"reminderSent": false,
		"finalDatetime": bson.M{
			"$gte": now,
			"$lt":  cutoff,
		},
	}

	meetings, err := s.MDB.Find(ctx, filter)
	if err != nil {
		s.log.Errorw("failed to find meetings due for a reminder", "error", err)
		return
	}

	sent := 0
	for _, meeting := range meetings {
		if err := s.remind(ctx, meeting); err != nil {
			s.log.Errorw("failed to remind meeting parties",
				"meetingId", meeting.ID.Hex(),
				"error", err,
			)
			continue
		}

		_, err := s.MDB.UpdateOne(ctx,
			bson.M{"_id": meeting.ID},
			bson.M{"$set": bson.M{"reminderSent": true, "updatedAt": time.Now().UTC()}},
		)
		if err != nil {
			s.log.Errorw("failed to mark meeting as reminded", "meetingId", meeting.ID.Hex(), "error", err)
			continue
		}
		sent++
	}

	s.log.Infow("Meeting reminder job finished", "due", len(meetings), "reminded", sent)
}

func (s *Scheduler) remind(ctx context.Context, meeting models.Meeting) error {
	when := meeting.FinalDatetime.Format("Monday, Jan 2 at 15:04 MST")

	where := "online"
	if meeting.Mode == models.ModeOffline {
		where = meeting.LocationText
	} else if meeting.MeetingURL != "" {
		where = fmt.Sprintf("online: %s", meeting.MeetingURL)
	}

	for _, personID := range []string{meeting.InviterID, meeting.InviteeID} {
		person, err := s.PDB.FindOne(ctx, bson.M{"_id": personID})
		if err != nil {
			return fmt.Errorf("lookup person %s: %w", personID, err)
		}
		counterpart, err := s.PDB.FindOne(ctx, bson.M{"_id": meeting.CounterpartID(personID)})
		if err != nil {
			return fmt.Errorf("lookup counterpart of %s: %w", personID, err)
		}

		subject := fmt.Sprintf("Reminder: your one-on-one with %s", counterpart.Details.Name)
		body := fmt.Sprintf(
			"Hi %s,\n\nYour one-on-one with %s is coming up on %s (%s).\n\nSee you there!",
			person.Details.Name, counterpart.Details.Name, when, where,
		)
		if err := s.sendEmail(person.Details.Email, person.Details.Name, subject, body); err != nil {
			return fmt.Errorf("email %s: %w", personID, err)
		}
	}
	return nil
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, plainText string) error {
	from := mail.NewEmail("MeetCircle", "no-reply@meetcircle.app")
	to := mail.NewEmail(toName, toEmail)
	htmlContent := templates.RenderGenericEmail(subject, plainText)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		s.log.Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
