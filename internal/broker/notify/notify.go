// Package notify dispatches one-time codes to users. Implementations only
// acknowledge the delivery attempt; the broker never waits on actual
// delivery.
package notify

import (
	"context"
	"log/slog"

	"github.com/veilhq/veil/internal/broker/domain"
)

// Sender delivers a one-time code to a destination over a channel.
type Sender interface {
	Send(ctx context.Context, destination string, channel domain.Channel, code string) error
}

// LogSender is the development sender: it records that a dispatch happened
// without the code itself, so logs never leak secrets.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, destination string, channel domain.Channel, code string) error {
	s.Logger.Info("dispatched verification code",
		"channel", string(channel),
		"destination", destination,
	)
	return nil
}
