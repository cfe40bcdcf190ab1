package models

import (
	"context"
	"ggdb-api/apperror"
	"ggdb-api/database"
	"ggdb-api/helpers"
	"ggdb-api/lookups"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Game is the "interface" used for client communication
type Game struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	MetaInfo     Header             `json:"metaInfo" bson:"metaInfo"`
	Title        string             `json:"title" bson:"title"`
	CoverImage   string             `json:"coverImage" bson:"coverImage,omitempty"`
	Description  string             `json:"description" bson:"description,omitempty"`
	Developer    string             `json:"developer" bson:"developer,omitempty"`
	Publisher    string             `json:"publisher" bson:"publisher,omitempty"`
	PlatformCode int32              `json:"platformCode" bson:"platformCD"`
	PlatformText string             `json:"platformText" bson:"-"`
	GenreCode    int32              `json:"genreCode" bson:"genreCD"`
	GenreText    string             `json:"genreText" bson:"-"`
	ReleaseDate  string             `json:"releaseDate" bson:"releaseDate,omitempty"`
	Status       string             `json:"status" bson:"status,omitempty"` // free text, eg. "Released", "In Development"
}

// GameListItem is the reduced/simplified model used for listings
type GameListItem struct {
	ID          primitive.ObjectID `json:"id"`
	CreatedTS   time.Time          `json:"createdTS"`
	Title       string             `json:"title"`
	CoverImage  string             `json:"coverImage"`
	Rating      float64            `json:"rating"`
	GenreCode   int32              `json:"genreCode"`
	GenreText   string             `json:"genreText"`
	ReleaseDate string             `json:"releaseDate"`
	Status      string             `json:"status"`
}

// GameModel provides the logic to the interface and access to the database
type GameModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	// some information comes from the user model, referenced here
	// so the controller doesn't have to do the plumbing
	GetUserName func(ID string) (string, error)
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m GameModel) Validate(game Game) (*Game, error) {

	cleaned := game

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrGameTitleMissing
	}

	return &cleaned, nil
}

// CreateGame adds a new database entry - validated by controller
func (m GameModel) CreateGame(game *Game) (string, error) {

	// set "system-fields"
	game.ID = primitive.NewObjectID()
	game.MetaInfo.TouchedTS = time.Now()
	game.MetaInfo.Rating = 0
	game.MetaInfo.Visits = 0

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(ctx, game)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListGames returns the catalogue, best-rated first
// (clients cut this down further, eg. to a top-5 widget)
// genreText optionally narrows the list to one genre (reverse look-up)
func (m GameModel) ListGames(genreText string) ([]GameListItem, error) {

	filter := bson.D{}
	if genreText != "" {
		genreCode, err := database.GetLookupValue(lookups.LookupType(lookups.LTgenre), genreText)
		if err != nil {
			return nil, apperror.ErrNoData
		}
		filter = bson.D{{Key: "genreCD", Value: genreCode}}
	}

	// use original struct to receive selected fields
	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "metaInfo", Value: 1},
		{Key: "title", Value: 1},
		{Key: "coverImage", Value: 1},
		{Key: "genreCD", Value: 1},
		{Key: "releaseDate", Value: 1},
		{Key: "status", Value: 1},
	}

	sort := bson.D{
		{Key: "metaInfo.rating", Value: -1},
		{Key: "metaInfo.touchedTS", Value: -1},
	}

	opts := options.Find().SetProjection(fields).SetLimit(100).SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var games []Game

	err = cursor.All(ctx, &games)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if games == nil {
		return nil, apperror.ErrNoData
	}

	return m.toList(games), nil
}

// SimilarGames returns entries sharing the genre, excluding the game itself
func (m GameModel) SimilarGames(gameID string) ([]GameListItem, error) {

	game, err := m.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "metaInfo", Value: 1},
		{Key: "title", Value: 1},
		{Key: "coverImage", Value: 1},
		{Key: "genreCD", Value: 1},
		{Key: "releaseDate", Value: 1},
		{Key: "status", Value: 1},
	}

	sort := bson.D{
		{Key: "metaInfo.rating", Value: -1},
	}

	opts := options.Find().SetProjection(fields).SetLimit(6).SetSort(sort)

	filter := bson.D{
		{Key: "genreCD", Value: game.GenreCode},
		{Key: "_id", Value: bson.D{
			{Key: "$ne", Value: game.ID},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var games []Game

	err = cursor.All(ctx, &games)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if games == nil {
		return nil, apperror.ErrNoData
	}

	return m.toList(games), nil
}

// GetGame returns one entry
func (m GameModel) GetGame(gameID string) (*Game, error) {

	id, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data := Game{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// add look-ups
	data.MetaInfo.CreatedTS = primitive.ObjectID.Timestamp(data.ID)
	data.PlatformText = database.GetLookupText(lookups.LookupType(lookups.LTplatform), data.PlatformCode)
	data.GenreText = database.GetLookupText(lookups.LookupType(lookups.LTgenre), data.GenreCode)

	return &data, nil
}

// SetRating persists the review average, called by the review model
func (m GameModel) SetRating(gameOID primitive.ObjectID, rating float64) error {

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "metaInfo.rating", Value: rating},
			{Key: "metaInfo.touchedTS", Value: time.Now()},
		}},
	}

	filter := bson.D{{Key: "_id", Value: gameOID}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData // document might have been deleted
	}

	return nil
}

// copy data to the reduced list-struct
func (m GameModel) toList(games []Game) []GameListItem {

	var gameList []GameListItem
	var item GameListItem

	for _, g := range games {
		item.ID = g.ID
		item.CreatedTS = primitive.ObjectID.Timestamp(g.ID)
		item.Title = g.Title
		item.CoverImage = g.CoverImage
		item.Rating = g.MetaInfo.Rating
		item.GenreCode = g.GenreCode
		item.GenreText = database.GetLookupText(lookups.LookupType(lookups.LTgenre), g.GenreCode)
		item.ReleaseDate = g.ReleaseDate
		item.Status = g.Status

		gameList = append(gameList, item)
	}

	return gameList
}
