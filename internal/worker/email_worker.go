package worker

// email_worker.go
// Processes notification jobs from QueueEmail: moderation decisions and
// contribution-request outcomes are mailed to the affected contributor.

import (
	"context"
	"encoding/json"
	"fmt"

	"localprice/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender abstracts the SMTP mailer so tests can substitute a recorder.
type Sender interface {
	Send(to, subject, body string) error
}

// EmailWorker sends notification emails through the SMTP relay, guarded by a
// circuit breaker so a dead relay fast-fails into the DLQ instead of hanging
// every worker on connection timeouts.
type EmailWorker struct {
	sender  Sender
	breaker *infra.CircuitBreaker
}

// NewEmailWorker creates an EmailWorker with the provided sender and breaker.
// A nil breaker disables the guard.
func NewEmailWorker(sender Sender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker}
}

// Process sends one notification email. A returned error sends the job to the
// dead letter queue.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	send := func() error {
		return w.sender.Send(payload.ToEmail, payload.Subject, payload.Body)
	}

	var err error
	if w.breaker != nil {
		err = w.breaker.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return err
	}

	log.Info().Str("to", payload.ToEmail).Msg("email_worker: notification sent")
	return nil
}
