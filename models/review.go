package models

import (
	"context"
	"encoding/json"
	"ggdb-api/apperror"
	"ggdb-api/helpers"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// vote (action) type - sent and received as strings, absence means "no vote"
type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

// UserRef is a reference to a user inside the voter sets of a review.
// Source data is not uniform: older documents store raw ids (ObjectID or string),
// newer ones may carry populated objects ({_id: ...}). All shapes are normalized
// to the string key on receipt, so downstream logic never branches on shape.
type UserRef struct {
	Key string
}

// NewUserRef builds a reference from an ObjectID
func NewUserRef(oid primitive.ObjectID) UserRef {
	return UserRef{Key: oid.Hex()}
}

// Equals checks membership against a user id (hex or raw string)
func (u UserRef) Equals(userID string) bool {
	return u.Key != "" && u.Key == userID
}

// MarshalJSON sends the reference as a plain id string
func (u UserRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Key)
}

// UnmarshalJSON accepts a raw id string or an object carrying an id field
func (u *UserRef) UnmarshalJSON(data []byte) error {

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Key = s
		return nil
	}

	obj := struct {
		OID string `json:"_id"`
		ID  string `json:"id"`
	}{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	if obj.OID != "" {
		u.Key = obj.OID
	} else {
		u.Key = obj.ID
	}
	return nil
}

// MarshalBSONValue stores the reference denormalized (ObjectID where possible)
func (u UserRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if oid, err := primitive.ObjectIDFromHex(u.Key); err == nil {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(u.Key)
}

// UnmarshalBSONValue accepts ObjectIDs, strings and populated sub-documents
func (u *UserRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	u.Key = refKey(bson.RawValue{Type: t, Value: data})
	return nil
}

func refKey(rv bson.RawValue) string {
	switch rv.Type {
	case bsontype.ObjectID:
		if oid, ok := rv.ObjectIDOK(); ok {
			return oid.Hex()
		}
	case bsontype.String:
		if s, ok := rv.StringValueOK(); ok {
			return s
		}
	case bsontype.EmbeddedDocument:
		doc := rv.Document()
		if v, err := doc.LookupErr("_id"); err == nil {
			return refKey(v)
		}
		if v, err := doc.LookupErr("id"); err == nil {
			return refKey(v)
		}
	}
	return ""
}

// Review is the "interface" used for client communication
type Review struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	GameID      primitive.ObjectID `json:"gameId" bson:"gameID"`
	CreatedTS   time.Time          `json:"date" bson:"-"` // extracted from OID
	CreatedID   primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName string             `json:"user" bson:"createdName"`
	Comment     string             `json:"comment" bson:"comment"`
	Rating      int32              `json:"rating" bson:"rating"`
	Spoiler     *bool              `json:"spoiler" bson:"spoiler"` // pointer to tell "not chosen" from false
	Likes       int32              `json:"likes" bson:"likes"`
	Dislikes    int32              `json:"dislikes" bson:"dislikes"`
	LikedBy     []UserRef          `json:"likedBy" bson:"likedBy"`
	DislikedBy  []UserRef          `json:"dislikedBy" bson:"dislikedBy"`
	UserVote    *VoteType          `json:"userVote" bson:"-"` // resolved per requesting user
}

// VoteResult is the authoritative state returned after a vote mutation;
// clients replace their local counters with it, they never increment themselves
type VoteResult struct {
	Likes    int32     `json:"likes"`
	Dislikes int32     `json:"dislikes"`
	UserVote *VoteType `json:"userVote"`
}

// RatingBucket is one entry of the star-breakdown (5..1)
type RatingBucket struct {
	Stars int32 `json:"stars"`
	Count int32 `json:"count"`
}

// ReviewSummary is sent along with review lists for the rating widget
type ReviewSummary struct {
	Average   float64        `json:"average"`
	Count     int32          `json:"count"`
	Breakdown []RatingBucket `json:"breakdown"`
}

// ReviewModel provides the logic to the interface and access to the database
type ReviewModel struct {
	Collection *mongo.Collection
	// some information comes from other models; it's referenced here
	// so the controller doesn't have to do the plumbing
	GetUserNameOID func(userID primitive.ObjectID) (string, error)
	CanMaintain    func(userOID primitive.ObjectID, creatorOID primitive.ObjectID) bool
	SetGameRating  func(gameOID primitive.ObjectID, rating float64) error // injected from game model
}

// VoteState derives the current vote of a user from the voter sets.
// nil means the user did not vote; a user is in at most one of the two sets.
func VoteState(review *Review, userID string) *VoteType {

	if userID == "" {
		return nil
	}

	for _, ref := range review.LikedBy {
		if ref.Equals(userID) {
			v := VoteLike
			return &v
		}
	}
	for _, ref := range review.DislikedBy {
		if ref.Equals(userID) {
			v := VoteDislike
			return &v
		}
	}

	return nil
}

// Visible decides whether a review's body is shown
// (a spoiler review is hidden only while the global toggle is active)
func Visible(spoiler bool, hideSpoilers bool) bool {
	return !(spoiler && hideSpoilers)
}

// AverageRating returns the arithmetic mean over the given reviews,
// rounded to 2 decimal places; 0 for an empty list (never NaN)
func AverageRating(reviews []Review) float64 {

	if len(reviews) == 0 {
		return 0
	}

	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}

	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*100) / 100
}

// RatingHistogram counts reviews per star value, ordered 5..1 for display.
// Ratings outside 1..5 are rejected at ingestion, so every review lands in a bucket.
func RatingHistogram(reviews []Review) []RatingBucket {

	var counts [5]int32
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			counts[r.Rating-1]++
		}
	}

	buckets := make([]RatingBucket, 0, 5)
	for stars := int32(5); stars >= 1; stars-- {
		buckets = append(buckets, RatingBucket{Stars: stars, Count: counts[stars-1]})
	}

	return buckets
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m ReviewModel) Validate(review Review) (*Review, error) {

	cleaned := review

	cleaned.Comment = strings.TrimSpace(cleaned.Comment)

	if cleaned.Comment == "" {
		return nil, ErrCommentMissing
	}

	if cleaned.Rating < 1 || cleaned.Rating > 5 {
		return nil, ErrRatingInvalid
	}

	if cleaned.Spoiler == nil {
		return nil, ErrSpoilerChoiceMissing
	}

	return &cleaned, nil
}

// Create adds a new review - validated by controller
func (m ReviewModel) Create(review *Review) (string, error) {

	userName, err := m.GetUserNameOID(review.CreatedID)
	if err != nil {
		// domain error or already wrapped
		return "", err
	}
	review.CreatedName = userName

	// set "system-fields"
	review.ID = primitive.NewObjectID()
	review.Likes = 0
	review.Dislikes = 0
	review.LikedBy = nil
	review.DislikedBy = nil

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(ctx, review)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	// recalculate the game's aggregate after the write
	// (errors are not passed on, the review itself was saved)
	m.refreshGameRating(review.GameID)

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListReviews returns a game's reviews, newest first, optionally capped.
// userID is required to resolve the requesting user's votes; when hideSpoilers
// is set, bodies of spoiler reviews are withheld (the flag itself is kept so
// clients can render the placeholder).
func (m ReviewModel) ListReviews(gameID string, limit int64, userID string, hideSpoilers bool) ([]Review, error) {

	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	filter := bson.D{{Key: "gameID", Value: oid}}

	sort := bson.D{
		{Key: "_id", Value: -1},
	}

	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var reviews []Review

	err = cursor.All(ctx, &reviews)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if reviews == nil {
		return nil, apperror.ErrNoData
	}

	for i := range reviews {
		reviews[i].CreatedTS = primitive.ObjectID.Timestamp(reviews[i].ID)
		reviews[i].UserVote = VoteState(&reviews[i], userID)

		spoiler := reviews[i].Spoiler != nil && *reviews[i].Spoiler
		if !Visible(spoiler, hideSpoilers) {
			reviews[i].Comment = ""
		}
	}

	return reviews, nil
}

// Summarize computes average and star-breakdown over ALL reviews of a game
// (the list itself may be capped, the widget numbers never are)
func (m ReviewModel) Summarize(gameID string) (*ReviewSummary, error) {

	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// only the ratings are needed
	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "rating", Value: 1},
	}

	opts := options.Find().SetProjection(fields)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.D{{Key: "gameID", Value: oid}}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var reviews []Review
	err = cursor.All(ctx, &reviews)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	summary := &ReviewSummary{
		Average:   AverageRating(reviews),
		Count:     int32(len(reviews)),
		Breakdown: RatingHistogram(reviews),
	}

	return summary, nil
}

// Delete removes a review; allowed for the owner and for moderators/admins
func (m ReviewModel) Delete(reviewID string, userOID primitive.ObjectID) error {

	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return apperror.ErrNoData
	}

	review, err := m.getReview(oid)
	if err != nil {
		return err
	}

	if !m.CanMaintain(userOID, review.CreatedID) {
		return apperror.ErrDenied
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := m.Collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.DeletedCount == 0 {
		return apperror.ErrNoData // document might have been deleted already
	}

	m.refreshGameRating(review.GameID)

	return nil
}

// CastVote registers, changes or retracts (vote == nil) a user's vote on a review.
// The server is the sole authority for the resulting counts: the voter sets are
// reconciled here and the returned state replaces whatever the client holds.
func (m ReviewModel) CastVote(reviewID string, userOID primitive.ObjectID, vote *VoteType) (*VoteResult, error) {

	if vote != nil && *vote != VoteLike && *vote != VoteDislike {
		return nil, ErrInvalidVoteType
	}

	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	review, err := m.getReview(oid)
	if err != nil {
		return nil, err
	}

	userID := userOID.Hex()

	// remove the user from both sets, then add to the intended one
	// (keeps the invariant that a user is in at most one set)
	likedBy := withoutRef(review.LikedBy, userID)
	dislikedBy := withoutRef(review.DislikedBy, userID)

	if vote != nil {
		switch *vote {
		case VoteLike:
			likedBy = append(likedBy, NewUserRef(userOID))
		case VoteDislike:
			dislikedBy = append(dislikedBy, NewUserRef(userOID))
		}
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "likedBy", Value: likedBy},
			{Key: "dislikedBy", Value: dislikedBy},
			{Key: "likes", Value: int32(len(likedBy))},
			{Key: "dislikes", Value: int32(len(dislikedBy))},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, fields)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return nil, apperror.ErrNoData // document might have been deleted
	}

	voteResult := new(VoteResult)
	voteResult.Likes = int32(len(likedBy))
	voteResult.Dislikes = int32(len(dislikedBy))
	voteResult.UserVote = vote

	return voteResult, nil
}

// internal reader used by vote and delete
func (m ReviewModel) getReview(oid primitive.ObjectID) (*Review, error) {

	var review Review

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &review, nil
}

// recompute and persist the game's average after a review write
// fire & forget, a failed de-norm doesn't invalidate the review operation
func (m ReviewModel) refreshGameRating(gameOID primitive.ObjectID) {

	if m.SetGameRating == nil {
		return
	}

	summary, err := m.Summarize(gameOID.Hex())
	if err != nil {
		return
	}

	_ = m.SetGameRating(gameOID, summary.Average)
}

func withoutRef(refs []UserRef, userID string) []UserRef {

	var cleaned []UserRef
	for _, ref := range refs {
		if !ref.Equals(userID) {
			cleaned = append(cleaned, ref)
		}
	}
	return cleaned
}
