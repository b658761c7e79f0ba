package profiles

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Profile is the locally queryable projection of an account. The identity
// provider stays authoritative for identity fields; this record is a cache
// with last-write-wins semantics.
type Profile struct {
	Email       string    `bson:"_id" json:"email"`
	Name        string    `bson:"name,omitempty" json:"name,omitempty"`
	PhoneNumber string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Picture     string    `bson:"picture,omitempty" json:"picture,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	Creator     string    `bson:"creator,omitempty" json:"creator,omitempty"`
	Updater     string    `bson:"updater,omitempty" json:"updater,omitempty"`
}

func (dbService *ProfileDBService) SaveProfile(profile Profile) (Profile, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": profile.Email}
	upsert := true
	opts := options.ReplaceOptions{
		Upsert: &upsert,
	}
	_, err := dbService.collectionProfiles().ReplaceOne(ctx, filter, profile, &opts)
	return profile, err
}

func (dbService *ProfileDBService) GetProfile(email string) (Profile, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var profile Profile
	err := dbService.collectionProfiles().FindOne(ctx, bson.M{"_id": email}).Decode(&profile)
	return profile, err
}

func (dbService *ProfileDBService) ProfileExists(email string) (bool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	count, err := dbService.collectionProfiles().CountDocuments(ctx, bson.M{"_id": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (dbService *ProfileDBService) DeleteProfile(email string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionProfiles().DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (dbService *ProfileDBService) FindProfileByNameAndPhone(name string, phoneNumber string) (Profile, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"name": name, "phoneNumber": phoneNumber}
	var profile Profile
	err := dbService.collectionProfiles().FindOne(ctx, filter).Decode(&profile)
	return profile, err
}

// FindProfiles returns profiles matching the partial template, newest first.
// page is zero based; limit < 1 disables paging.
func (dbService *ProfileDBService) FindProfiles(template Profile, page int64, limit int64) ([]Profile, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetSkip(page * limit)
		opts.SetLimit(limit)
	}

	cursor, err := dbService.collectionProfiles().Find(ctx, filterFromTemplate(template), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := []Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (dbService *ProfileDBService) CountProfiles(template Profile) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionProfiles().CountDocuments(ctx, filterFromTemplate(template))
}

// filterFromTemplate builds a partial matching filter: every populated string
// field narrows the result set with a case insensitive contains match, empty
// fields are ignored.
func filterFromTemplate(template Profile) bson.M {
	filter := bson.M{}
	addContainsMatch(filter, "_id", template.Email)
	addContainsMatch(filter, "name", template.Name)
	addContainsMatch(filter, "phoneNumber", template.PhoneNumber)
	return filter
}

func addContainsMatch(filter bson.M, field string, value string) {
	if value == "" {
		return
	}
	filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}
