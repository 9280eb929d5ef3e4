package alerts

import (
	"context"
	"log"

	"github.com/sudo-init-do/gearhub/internal/config"
)

// Mailer delivers an email envelope.
type Mailer interface {
	Send(ctx context.Context, env EmailEnvelope) error
}

// LogMailer prints emails instead of sending them.
type LogMailer struct{}

// Send logs env.
func (LogMailer) Send(_ context.Context, env EmailEnvelope) error {
	log.Printf("[notify] (log mailer) to=%s subject=%q\n%s", env.To, env.Subject, env.Body)
	return nil
}

// NewMailer returns a Plunk mailer when an API key is configured and a
// LogMailer otherwise.
func NewMailer(cfg config.PlunkConfig) Mailer {
	if cfg.APIKey == "" {
		log.Printf("[notify] PLUNK_API_KEY not set, emails will be logged")
		return LogMailer{}
	}
	return NewPlunk(cfg)
}
