package application

import "context"

// Notifier delivers a short text message to an email address.
// Implementations are fire-and-forget: Send must not block the caller on
// delivery and delivery failures are contained inside the implementation,
// never surfaced to request handling.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string)
}
