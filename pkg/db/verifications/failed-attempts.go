package verifications

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type FailedAttempt struct {
	Checker   string    `bson:"checker"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (dbService *VerificationDBService) AddFailedAttempt(checker string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	attempt := FailedAttempt{
		Checker:   checker,
		CreatedAt: time.Now(),
	}
	_, err := dbService.collectionFailedAttempts().InsertOne(ctx, attempt)
	return err
}

func (dbService *VerificationDBService) CountFailedAttempts(checker string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionFailedAttempts().CountDocuments(ctx, bson.M{"checker": checker})
}

func (dbService *VerificationDBService) DeleteFailedAttempts(checker string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionFailedAttempts().DeleteMany(ctx, bson.M{"checker": checker})
	return err
}
