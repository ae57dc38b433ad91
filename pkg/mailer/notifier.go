package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/pkg/helpers"
)

// QueueNotifier enqueues notification emails on RabbitMQ for the email
// worker to deliver. Send is fire-and-forget: it returns immediately and
// a publish failure is logged, never propagated. A nil publisher (mail
// sending disabled) drops messages silently.
type QueueNotifier struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Logger: logger}
}

func (n *QueueNotifier) Send(ctx context.Context, to, subject, body string) {
	if n.Pub == nil {
		return
	}
	job := EmailJob{To: to, Subject: subject, Text: body}
	go func() {
		// Detached from the request context: delivery outlives the call.
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.Pub.PublishJSON(pctx, job); err != nil {
			n.Logger.WithError(err).WithField("to", to).Warn("notification publish failed")
		}
	}()
}
