package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Timeout: 10 * time.Second}
}

// Send delivers job through Mailgun. Each recipient gets an individual copy.
func (m *Mailgun) Send(ctx context.Context, job EmailJob) error {
	if len(job.To) == 0 {
		return errors.New("mailer: no recipients")
	}
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, job.Subject, job.Text)
	for _, to := range job.To {
		if err := msg.AddRecipient(to); err != nil {
			return err
		}
	}
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
