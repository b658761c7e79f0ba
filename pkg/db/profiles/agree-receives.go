package profiles

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AgreeReceive records one consent (marketing, notification channels) given
// by the account at signup. One document per account and consent code.
type AgreeReceive struct {
	Email    string    `bson:"email" json:"email"`
	Code     string    `bson:"code" json:"code"`
	AgreedAt time.Time `bson:"agreedAt" json:"agreedAt"`
}

func (dbService *ProfileDBService) SaveAgreeReceives(email string, codes []string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	upsert := true
	opts := options.ReplaceOptions{
		Upsert: &upsert,
	}
	for _, code := range codes {
		record := AgreeReceive{
			Email:    email,
			Code:     code,
			AgreedAt: time.Now(),
		}
		filter := bson.M{"email": email, "code": code}
		if _, err := dbService.collectionAgreeReceives().ReplaceOne(ctx, filter, record, &opts); err != nil {
			return err
		}
	}
	return nil
}

func (dbService *ProfileDBService) FindAgreeReceivesByEmail(email string) ([]AgreeReceive, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionAgreeReceives().Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	agreeReceives := []AgreeReceive{}
	if err := cursor.All(ctx, &agreeReceives); err != nil {
		return nil, err
	}
	return agreeReceives, nil
}

func (dbService *ProfileDBService) DeleteAgreeReceives(email string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionAgreeReceives().DeleteMany(ctx, bson.M{"email": email})
	return err
}
