package handlers

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/models"
	templates "github.com/meetcircle/connections-api/templates/html"
)

// Mailer sends transactional email through sendgrid. An empty APIKey disables
// sending, which keeps local development and tests quiet.
type Mailer struct {
	APIKey string
}

func (m *Mailer) send(toEmail, toName, subject, body string) error {
	if m == nil || m.APIKey == "" {
		return nil
	}
	from := mail.NewEmail("MeetCircle", "no-reply@meetcircle.app")
	to := mail.NewEmail(toName, toEmail)
	htmlContent := templates.RenderGenericEmail(subject, body)
	message := mail.NewSingleEmail(from, subject, to, body, htmlContent)
	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}

// SendInviteNotification emails the invitee that a new invite is waiting.
// Failures are logged, never surfaced; the invite is already persisted.
func (m *Mailer) SendInviteNotification(invitee *models.Person, inviter *models.Person, invite *models.Invite) {
	subject := fmt.Sprintf("%s invited you to connect", inviter.Details.Name)
	body := fmt.Sprintf(
		"Hi %s,\n\n%s would like to set up a one-on-one with you.\n\n\"%s\"\n\nOpen MeetCircle to review the proposed times and respond.",
		invitee.Details.Name, inviter.Details.Name, invite.Message,
	)
	if err := m.send(invitee.Details.Email, invitee.Details.Name, subject, body); err != nil {
		zap.S().Errorw("failed to send invite notification", "inviteId", invite.ID.Hex(), "error", err)
	}
}
