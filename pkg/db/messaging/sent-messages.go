package messaging

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SentMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	MessageType string             `bson:"messageType"`
	Channel     string             `bson:"channel"`
	To          string             `bson:"to"`
	SentAt      time.Time          `bson:"sentAt"`
}

func (dbService *MessagingDBService) AddToSentMessages(message SentMessage) (SentMessage, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	message.SentAt = time.Now()
	res, err := dbService.collectionSentMessages().InsertOne(ctx, message)
	if err != nil {
		return message, err
	}
	message.ID = res.InsertedID.(primitive.ObjectID)
	return message, nil
}
