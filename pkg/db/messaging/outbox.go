package messaging

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OutboxEvent is a notification waiting to be relayed to the message bus. The
// relay runs separately, the primary flows only append here.
type OutboxEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Topic     string             `bson:"topic"`
	Payload   map[string]string  `bson:"payload,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (dbService *MessagingDBService) AddToOutbox(topic string, payload map[string]string) (OutboxEvent, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	event := OutboxEvent{
		Topic:     topic,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	res, err := dbService.collectionOutbox().InsertOne(ctx, event)
	if err != nil {
		return event, err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return event, nil
}
