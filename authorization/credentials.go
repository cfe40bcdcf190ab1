package authorization

import (
	"context"
	"ggdb-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Functions to check permissions
// without dependencies to the User Model

type Credentials struct {
	UserID       primitive.ObjectID
	LoginName    string
	RoleCode     int32 `bson:"roleCD"`
	LanguageCode int32 `bson:"languageCD"`
	userCol      *mongo.Collection
}

// SetConnections is called in Env Model Initializiation
func (c *Credentials) SetConnections(mongoCollections map[string]*mongo.Collection) {
	c.userCol = mongoCollections["users"]
}

// GetCredentials returns account infos to control permissions and text-out (language)
// any error is considered an anonymous user (visitor) to public items
func (c *Credentials) GetCredentials(userOID primitive.ObjectID) *Credentials {
	var credentials Credentials

	fields := bson.D{
		{Key: "_id", Value: 0}, // _id is always returned unless explicitly excluded (0)
		{Key: "loginName", Value: 1},
		{Key: "roleCD", Value: 1},
		{Key: "languageCD", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.userCol.FindOne(ctx, bson.M{"_id": userOID}, opts).Decode(&credentials)
	if err != nil {
		c.setDefaultProfile(&credentials)
	}
	credentials.UserID = userOID // not read again from DB

	return &credentials
}

// CanMaintain decides if a user may update or delete content created by someone.
// Owners may maintain their own items, moderators and admins everything.
func (c *Credentials) CanMaintain(credentials *Credentials, creatorOID primitive.ObjectID) bool {

	if credentials == nil {
		return false
	}

	if credentials.RoleCode >= lookups.UserRoleModerator {
		return true
	}

	return credentials.UserID == creatorOID && credentials.UserID != primitive.NilObjectID
}

// this is used as the error handler of GetCredentials
// any error of that function will be treated as an anonymous user, receiving the default credentials
func (c *Credentials) setDefaultProfile(credentials *Credentials) {
	credentials.UserID = primitive.NilObjectID
	credentials.RoleCode = lookups.UserRoleGuest
}
