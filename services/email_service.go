package services

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v3"

	"rent-easy-server/config"
)

// EmailSender is the outbound mail collaborator. Sending is
// fire-and-forget: failures are logged and never surfaced to callers,
// so a broken mail provider cannot block a workflow.
type EmailSender interface {
	Send(to, subject, body string)
}

// EmailService sends transactional mail through Resend.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService creates an email service from the loaded config.
func NewEmailService() *EmailService {
	cfg := config.AppConfig.Email
	return &EmailService{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
	}
}

// Send dispatches an email in the background. It never blocks the
// caller and never returns an error.
func (es *EmailService) Send(to, subject, body string) {
	if config.AppConfig.Email.ResendAPIKey == "" {
		log.Printf("⚠️ Email sending skipped (RESEND_API_KEY not set): %q to %s", subject, to)
		return
	}

	go func() {
		params := &resend.SendEmailRequest{
			From:    es.from,
			To:      []string{to},
			Subject: subject,
			Text:    body,
		}

		if _, err := es.client.Emails.Send(params); err != nil {
			log.Printf("❌ Email send failed for %s: %v", to, err)
			return
		}
		log.Printf("📧 Email sent to %s: %s", to, subject)
	}()
}
