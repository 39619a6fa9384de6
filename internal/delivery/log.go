package delivery

import (
	"context"
	"log"
)

// LogSender writes messages to the server log instead of sending them.
// Used in development when no gateway credentials are configured.
type LogSender struct {
	channel string
}

// NewLogSender creates a log-only sender labeled with the channel it stands in for.
func NewLogSender(channel string) *LogSender {
	return &LogSender{channel: channel}
}

// Send logs the message and destination.
func (s *LogSender) Send(_ context.Context, destination, message string) error {
	log.Printf("[%s delivery disabled] to=%s message=%q", s.channel, destination, message)
	return nil
}
