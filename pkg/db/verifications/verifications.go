package verifications

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VerificationEntry is one outstanding proof of ownership challenge. The
// checker (phone number or email) is the natural key, so at most one live
// entry can exist per checker.
type VerificationEntry struct {
	Checker   string    `bson:"_id"`
	Code      string    `bson:"code"`
	CreatedAt time.Time `bson:"createdAt"`
}

// UpsertVerification stores a new code for the checker, replacing a previous
// entry if one exists.
func (dbService *VerificationDBService) UpsertVerification(checker string, code string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	entry := VerificationEntry{
		Checker:   checker,
		Code:      code,
		CreatedAt: time.Now(),
	}
	upsert := true
	opts := options.ReplaceOptions{
		Upsert: &upsert,
	}
	_, err := dbService.collectionVerifications().ReplaceOne(ctx, bson.M{"_id": checker}, entry, &opts)
	return err
}

func (dbService *VerificationDBService) GetVerification(checker string) (VerificationEntry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var entry VerificationEntry
	err := dbService.collectionVerifications().FindOne(ctx, bson.M{"_id": checker}).Decode(&entry)
	return entry, err
}

func (dbService *VerificationDBService) DeleteVerification(checker string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionVerifications().DeleteOne(ctx, bson.M{"_id": checker})
	return err
}
