// Package delivery sends one-time passcodes to users over external channels.
package delivery

import "context"

// Sender delivers a message to a destination address. Implementations wrap
// one outbound channel (SMS gateway, SMTP relay, or a log for development).
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}
