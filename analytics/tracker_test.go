package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseVisitKey(t *testing.T) {

	oid := primitive.NewObjectID()

	tests := []struct {
		name       string
		key        string
		objectType string
		objectID   primitive.ObjectID
		ok         bool
	}{
		{
			name:       "regular cache key",
			key:        "game_" + oid.Hex() + "_7c9e6679-7425-40de-944b-e07fc1f90ae7",
			objectType: "game",
			objectID:   oid,
			ok:         true,
		},
		{
			name: "missing uuid part",
			key:  "game_" + oid.Hex(),
			ok:   false,
		},
		{
			name: "malformed object id",
			key:  "game_notanoid_7c9e6679-7425-40de-944b-e07fc1f90ae7",
			ok:   false,
		},
		{
			name: "foreign key",
			key:  "sessiondata",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objectType, objectID, ok := parseVisitKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.objectType, objectType)
				assert.Equal(t, tt.objectID, objectID)
			}
		})
	}
}
