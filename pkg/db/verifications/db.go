package verifications

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
	COLLECTION_NAME_VERIFICATIONS   = "verifications"
	COLLECTION_NAME_FAILED_ATTEMPTS = "failedAttempts"
)

const (
	DEFAULT_ENTRY_TTL     = 60 * 10 // seconds
	FAILED_ATTEMPT_WINDOW = 60 * 10 // seconds
)

type VerificationDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
	EntryTTL     int32
}

func NewVerificationDBService(configs db.DBConfig, entryTTL int32) (*VerificationDBService, error) {
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

	if entryTTL <= 0 {
		entryTTL = DEFAULT_ENTRY_TTL
	}

	vDBSc := &VerificationDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
		EntryTTL:     entryTTL,
	}

	if configs.RunIndexCreation {
		vDBSc.CreateDefaultIndexes()
	}
	return vDBSc, nil
}

func (dbService *VerificationDBService) getDBName() string {
	return dbService.DBNamePrefix + "verifications"
}

func (dbService *VerificationDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *VerificationDBService) collectionVerifications() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_VERIFICATIONS)
}

func (dbService *VerificationDBService) collectionFailedAttempts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_FAILED_ATTEMPTS)
}

// CreateDefaultIndexes sets up the TTL indexes. The TTL sweep is only garbage
// collection, expiry is also enforced on read.
func (dbService *VerificationDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionVerifications().Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "createdAt", Value: 1},
			},
			Options: options.Index().SetExpireAfterSeconds(dbService.EntryTTL),
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for verifications", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionFailedAttempts().Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "createdAt", Value: 1},
			},
			Options: options.Index().SetExpireAfterSeconds(FAILED_ATTEMPT_WINDOW),
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for failed attempts", slog.String("error", err.Error()))
	}
}
