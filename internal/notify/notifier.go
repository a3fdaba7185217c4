// Package notify turns report events from the queue into shelter emails.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
	"github.com/oksasatya/pawpatrol/pkg/mailer"
	mailtpl "github.com/oksasatya/pawpatrol/pkg/mailer/templates"
)

// ErrMalformed marks messages that can never be processed and must not be requeued.
var ErrMalformed = errors.New("malformed report event")

// Sender is satisfied by *mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, job mailer.EmailJob) error
}

type Notifier struct {
	Sender     Sender
	Recipients []string
	AppName    string
	Logger     *logrus.Logger
}

func NewNotifier(sender Sender, recipients []string, appName string, logger *logrus.Logger) *Notifier {
	return &Notifier{Sender: sender, Recipients: recipients, AppName: appName, Logger: logger}
}

func headline(ev application.ReportEvent) string {
	switch ev.Type {
	case application.ReportCreated:
		if ev.Report.Count > 1 {
			return fmt.Sprintf("New report: %d dogs sighted", ev.Report.Count)
		}
		return "New report: dog sighted"
	case application.ReportStatusChanged:
		return "Report " + string(ev.Report.Status)
	case application.ReportDeleted:
		return "Report withdrawn"
	default:
		return "Report updated"
	}
}

// Build renders the email for one event.
func (n *Notifier) Build(ev application.ReportEvent) (mailer.EmailJob, error) {
	r := ev.Report
	data := mailtpl.ReportEventData{
		AppName:        n.AppName,
		Event:          string(ev.Type),
		Headline:       headline(ev),
		ReportID:       r.ID,
		Status:         string(r.Status),
		Count:          r.Count,
		Aggressiveness: r.Aggressiveness,
		Longitude:      r.Location.X,
		Latitude:       r.Location.Y,
		MapURL:         fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=17/%.6f/%.6f", r.Location.Y, r.Location.X, r.Location.Y, r.Location.X),
		ActorName:      ev.ActorName,
		OccurredAt:     ev.OccurredAt,
	}
	subject, text, html, err := mailtpl.Render(mailtpl.ReportEvent, data)
	if err != nil {
		return mailer.EmailJob{}, err
	}
	return mailer.EmailJob{To: n.Recipients, Subject: subject, Text: text, HTML: html}, nil
}

// Handle decodes and delivers one queue message. Errors wrapping ErrMalformed
// are permanent; any other error is worth a retry.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var ev application.ReportEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.Type == "" || ev.Report.ID == "" {
		return fmt.Errorf("%w: missing type or report id", ErrMalformed)
	}
	if len(n.Recipients) == 0 {
		helpers.LogInfo(n.Logger, "no notification recipients configured; dropping event", logrus.Fields{"report_id": ev.Report.ID})
		return nil
	}
	job, err := n.Build(ev)
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrMalformed, err)
	}
	if err := n.Sender.Send(ctx, job); err != nil {
		return err
	}
	helpers.LogInfo(n.Logger, "report notification sent", logrus.Fields{
		"report_id":  ev.Report.ID,
		"event":      ev.Type,
		"recipients": len(job.To),
	})
	return nil
}
