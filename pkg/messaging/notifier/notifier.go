// Package notifier publishes account lifecycle events. Events are written to
// the outbox collection; a relay drains it towards the message bus, the
// primary flows never wait on the bus.
package notifier

import (
	"fmt"
	"log/slog"

	messageDB "github.com/accountdesk/account-backend/pkg/db/messaging"
)

const (
	TOPIC_ACCOUNT_CREATED = "account/created"
	TOPIC_ACCOUNT_UPDATED = "account/%s/updated"
	TOPIC_ACCOUNT_DELETED = "account/%s/deleted"
)

type OutboxNotifier struct {
	messageDBService *messageDB.MessagingDBService
}

func NewOutboxNotifier(mdb *messageDB.MessagingDBService) *OutboxNotifier {
	return &OutboxNotifier{
		messageDBService: mdb,
	}
}

func (n *OutboxNotifier) AccountCreated(email string) {
	n.publish(TOPIC_ACCOUNT_CREATED, email)
}

func (n *OutboxNotifier) AccountUpdated(email string) {
	n.publish(fmt.Sprintf(TOPIC_ACCOUNT_UPDATED, email), email)
}

func (n *OutboxNotifier) AccountDeleted(email string) {
	n.publish(fmt.Sprintf(TOPIC_ACCOUNT_DELETED, email), email)
}

func (n *OutboxNotifier) publish(topic string, email string) {
	_, err := n.messageDBService.AddToOutbox(topic, map[string]string{
		"email": email,
	})
	if err != nil {
		slog.Error("could not write account event to outbox",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}
}
