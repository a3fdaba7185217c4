package mailer

// EmailJob is one rendered message ready for delivery.
// HTML is optional; Text is the fallback body.
type EmailJob struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}
