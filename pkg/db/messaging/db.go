package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/accountdesk/account-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_OUTBOX        = "outbox"
	COLLECTION_NAME_SENT_MESSAGES = "sentMessages"
)

type MessagingDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewMessagingDBService(configs db.DBConfig) (*MessagingDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	mDBSc := &MessagingDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		mDBSc.CreateDefaultIndexes()
	}
	return mDBSc, nil
}

func (dbService *MessagingDBService) getDBName() string {
	return dbService.DBNamePrefix + "messaging"
}

func (dbService *MessagingDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *MessagingDBService) collectionOutbox() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_OUTBOX)
}

func (dbService *MessagingDBService) collectionSentMessages() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SENT_MESSAGES)
}

func (dbService *MessagingDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionOutbox().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "createdAt", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "topic", Value: 1},
				},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for outbox", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionSentMessages().Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "sentAt", Value: 1},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for sent messages", slog.String("error", err.Error()))
	}
}
