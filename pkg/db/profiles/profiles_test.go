package profiles

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterFromTemplate(t *testing.T) {
	t.Run("with empty template", func(t *testing.T) {
		filter := filterFromTemplate(Profile{})
		if len(filter) != 0 {
			t.Errorf("unexpected filter: %v", filter)
		}
	})

	t.Run("with populated fields only", func(t *testing.T) {
		filter := filterFromTemplate(Profile{Name: "Kim", PhoneNumber: "010"})
		if len(filter) != 2 {
			t.Errorf("unexpected filter: %v", filter)
		}
		if _, ok := filter["_id"]; ok {
			t.Error("email should not be part of the filter")
		}
		name, ok := filter["name"].(primitive.Regex)
		if !ok {
			t.Fatalf("unexpected filter entry: %v", filter["name"])
		}
		if name.Pattern != "Kim" || name.Options != "i" {
			t.Errorf("unexpected regex: %v", name)
		}
	})

	t.Run("with regex special characters", func(t *testing.T) {
		filter := filterFromTemplate(Profile{PhoneNumber: "+1555"})
		phone, ok := filter["phoneNumber"].(primitive.Regex)
		if !ok {
			t.Fatalf("unexpected filter entry: %v", filter["phoneNumber"])
		}
		if phone.Pattern != `\+1555` {
			t.Errorf("special characters should be quoted: %s", phone.Pattern)
		}
	})
}
