package profiles

import (
	"context"
	"log/slog"
	"time"

	"github.com/accountdesk/account-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_PROFILES       = "profiles"
	COLLECTION_NAME_AGREE_RECEIVES = "agreeReceives"
)

type ProfileDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewProfileDBService(configs db.DBConfig) (*ProfileDBService, error) {
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

	pDBSc := &ProfileDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		pDBSc.CreateDefaultIndexes()
	}
	return pDBSc, nil
}

func (dbService *ProfileDBService) getDBName() string {
	return dbService.DBNamePrefix + "accounts"
}

func (dbService *ProfileDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *ProfileDBService) collectionProfiles() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_PROFILES)
}

func (dbService *ProfileDBService) collectionAgreeReceives() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_AGREE_RECEIVES)
}

func (dbService *ProfileDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionProfiles().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "name", Value: 1},
					{Key: "phoneNumber", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "createdAt", Value: 1},
				},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for profiles", slog.String("error", err.Error()))
	}

	unique := true
	_, err = dbService.collectionAgreeReceives().Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "email", Value: 1},
				{Key: "code", Value: 1},
			},
			Options: &options.IndexOptions{
				Unique: &unique,
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for agree receives", slog.String("error", err.Error()))
	}
}
