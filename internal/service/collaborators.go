package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// The grading core calls out to notification, email, badge and user-directory
// subsystems that live elsewhere. Each is a black box with a fire-and-forget
// contract: errors are logged by the aggregator and never surface to the
// submitting user.

const NotificationKindScoreUpdate = "SCORE_UPDATE"

type Notification struct {
	UserID  uint                   `json:"user_id"`
	Kind    string                 `json:"kind"`
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

type NotificationSink interface {
	Send(ctx context.Context, n Notification) error
}

type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

type EmailSender interface {
	Send(ctx context.Context, e Email) error
}

type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID uint) error
}

// UserDirectory resolves contact details; user accounts belong to an
// out-of-scope subsystem. An empty address means "no email on file".
type UserDirectory interface {
	EmailFor(ctx context.Context, userID uint) (string, error)
}

// Log-backed defaults. Deployments swap these for real transports via fx.

type LogNotificationSink struct{}

func NewLogNotificationSink() NotificationSink { return &LogNotificationSink{} }

func (s *LogNotificationSink) Send(_ context.Context, n Notification) error {
	log.Info().Uint("userID", n.UserID).Str("kind", n.Kind).Str("title", n.Title).Msg("Notification dispatched")
	return nil
}

type LogEmailSender struct{}

func NewLogEmailSender() EmailSender { return &LogEmailSender{} }

func (s *LogEmailSender) Send(_ context.Context, e Email) error {
	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("Email dispatched")
	return nil
}

type LogBadgeEvaluator struct{}

func NewLogBadgeEvaluator() BadgeEvaluator { return &LogBadgeEvaluator{} }

func (s *LogBadgeEvaluator) Evaluate(_ context.Context, userID uint) error {
	log.Info().Uint("userID", userID).Msg("Badge evaluation triggered")
	return nil
}

type NoopUserDirectory struct{}

func NewNoopUserDirectory() UserDirectory { return &NoopUserDirectory{} }

func (d *NoopUserDirectory) EmailFor(_ context.Context, _ uint) (string, error) {
	return "", nil
}
