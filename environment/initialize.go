package environment

import (
	"ggdb-api/analytics"
	"ggdb-api/authorization"
	"ggdb-api/client"
	"ggdb-api/database"
	"ggdb-api/models"
	"os"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Tracker           *analytics.Tracker
	Requests          *client.Registry
	Credentials       *authorization.Credentials
	UserModel         models.UserModel
	GameModel         models.GameModel
	ReviewModel       models.ReviewModel
	ContributionModel models.ContributionModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client, redisClient *redis.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	// prepare analytics gathering (game page visits)
	// always create the object so no further checking is needed in the models
	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(redisClient,
		db.Collection("analytics"),
		(*database.GetInfluxConnection()).WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_BUCKET")))

	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	env.Credentials = new(authorization.Credentials)
	env.Credentials.SetConnections(map[string]*mongo.Collection{
		"users": db.Collection("users"),
	})

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = db.Collection("users")

	// inject user model function to the analytics tracker after its initialization
	env.Tracker.GetUserName = env.UserModel.GetUserName

	env.GameModel.Client = mongoClient
	env.GameModel.Collection = db.Collection("games")
	env.GameModel.GetUserName = env.UserModel.GetUserName

	env.ReviewModel.Collection = db.Collection("reviews")
	// inject functions of the other models into the review model
	env.ReviewModel.GetUserNameOID = env.UserModel.GetUserNameOID
	env.ReviewModel.SetGameRating = env.GameModel.SetRating
	env.ReviewModel.CanMaintain = func(userOID primitive.ObjectID, creatorOID primitive.ObjectID) bool {
		credentials := env.Credentials.GetCredentials(userOID)
		return env.Credentials.CanMaintain(credentials, creatorOID)
	}

	env.ContributionModel.Collection = db.Collection("contributions")

	return env
}

// Env is the singleton registry
var Env *Environment

// Initialize injects the database connections into the models
// (do not confuse with package init)
func Initialize() {
	Env = newEnv(database.GetConnection(), database.GetRedisConnection())
}
