package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestVoteState(t *testing.T) {

	review := Review{
		LikedBy:    []UserRef{{Key: "u1"}, {Key: "u2"}},
		DislikedBy: []UserRef{{Key: "u3"}},
	}

	tests := []struct {
		name     string
		userID   string
		expected *VoteType
	}{
		{
			name:     "liked",
			userID:   "u1",
			expected: func() *VoteType { v := VoteLike; return &v }(),
		},
		{
			name:     "disliked",
			userID:   "u3",
			expected: func() *VoteType { v := VoteDislike; return &v }(),
		},
		{
			name:     "no vote",
			userID:   "u4",
			expected: nil,
		},
		{
			name:     "anonymous",
			userID:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VoteState(&review, tt.userID))
		})
	}
}

func TestVoteStateObjectShapedRefs(t *testing.T) {

	// voter arrays may arrive populated (sub-documents) instead of raw ids
	raw, err := bson.Marshal(bson.M{
		"likedBy": bson.A{
			bson.M{"_id": "u1", "name": "Ada"},
		},
		"dislikedBy": bson.A{"u2"},
	})
	assert.NoError(t, err)

	var review Review
	assert.NoError(t, bson.Unmarshal(raw, &review))

	assert.NotNil(t, VoteState(&review, "u1"))
	assert.Equal(t, VoteLike, *VoteState(&review, "u1"))
	assert.Equal(t, VoteDislike, *VoteState(&review, "u2"))
	assert.Nil(t, VoteState(&review, "u3"))
}

func TestUserRefBSONRoundTrip(t *testing.T) {

	oid := primitive.NewObjectID()

	raw, err := bson.Marshal(bson.M{"likedBy": bson.A{oid}})
	assert.NoError(t, err)

	var review Review
	assert.NoError(t, bson.Unmarshal(raw, &review))
	assert.Len(t, review.LikedBy, 1)
	assert.Equal(t, oid.Hex(), review.LikedBy[0].Key)

	// hex keys go back to the database as real ObjectIDs
	out, err := bson.Marshal(bson.M{"likedBy": review.LikedBy})
	assert.NoError(t, err)

	var check struct {
		LikedBy []primitive.ObjectID `bson:"likedBy"`
	}
	assert.NoError(t, bson.Unmarshal(out, &check))
	assert.Equal(t, oid, check.LikedBy[0])
}

func TestUserRefJSON(t *testing.T) {

	var ref UserRef

	assert.NoError(t, json.Unmarshal([]byte(`"u1"`), &ref))
	assert.Equal(t, "u1", ref.Key)

	assert.NoError(t, json.Unmarshal([]byte(`{"_id":"u2","name":"Ada"}`), &ref))
	assert.Equal(t, "u2", ref.Key)

	assert.NoError(t, json.Unmarshal([]byte(`{"id":"u3"}`), &ref))
	assert.Equal(t, "u3", ref.Key)

	b, err := json.Marshal(UserRef{Key: "u1"})
	assert.NoError(t, err)
	assert.Equal(t, `"u1"`, string(b))
}

func TestVisible(t *testing.T) {

	tests := []struct {
		name         string
		spoiler      bool
		hideSpoilers bool
		expected     bool
	}{
		{"plain review, toggle off", false, false, true},
		{"plain review, toggle on", false, true, true},
		{"spoiler, toggle off", true, false, true},
		{"spoiler, toggle on", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Visible(tt.spoiler, tt.hideSpoilers))
		})
	}
}

func ratedReviews(ratings ...int32) []Review {
	reviews := make([]Review, len(ratings))
	for i, r := range ratings {
		reviews[i].Rating = r
	}
	return reviews
}

func TestAverageRating(t *testing.T) {

	tests := []struct {
		name     string
		ratings  []int32
		expected float64
	}{
		{"empty list", nil, 0},
		{"single review", []int32{4}, 4},
		{"round down", []int32{5, 4, 4}, 4.33},
		{"round up", []int32{5, 5, 4}, 4.67},
		{"all minimum", []int32{1, 1}, 1},
		{"all maximum", []int32{5, 5, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg := AverageRating(ratedReviews(tt.ratings...))
			assert.Equal(t, tt.expected, avg)
			assert.GreaterOrEqual(t, avg, 0.0)
			assert.LessOrEqual(t, avg, 5.0)
		})
	}
}

func TestRatingHistogram(t *testing.T) {

	reviews := ratedReviews(5, 5, 3, 1, 4, 5)
	buckets := RatingHistogram(reviews)

	assert.Len(t, buckets, 5)

	// ordered 5 down to 1
	assert.Equal(t, int32(5), buckets[0].Stars)
	assert.Equal(t, int32(1), buckets[4].Stars)

	assert.Equal(t, int32(3), buckets[0].Count) // fives
	assert.Equal(t, int32(1), buckets[1].Count) // fours
	assert.Equal(t, int32(1), buckets[2].Count) // threes
	assert.Equal(t, int32(0), buckets[3].Count) // twos
	assert.Equal(t, int32(1), buckets[4].Count) // ones

	var total int32
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, int32(len(reviews)), total)
}

func TestRatingHistogramEmpty(t *testing.T) {

	buckets := RatingHistogram(nil)

	assert.Len(t, buckets, 5)
	for _, b := range buckets {
		assert.Equal(t, int32(0), b.Count)
	}
}

func TestReviewValidate(t *testing.T) {

	var m ReviewModel

	valid := Review{
		Comment: "Great pacing, weak ending.",
		Rating:  4,
		Spoiler: boolPtr(false),
	}

	tests := []struct {
		name     string
		mutate   func(r *Review)
		expected error
	}{
		{
			name:     "valid",
			mutate:   func(r *Review) {},
			expected: nil,
		},
		{
			name:     "empty comment",
			mutate:   func(r *Review) { r.Comment = "" },
			expected: ErrCommentMissing,
		},
		{
			name:     "whitespace comment",
			mutate:   func(r *Review) { r.Comment = "   " },
			expected: ErrCommentMissing,
		},
		{
			name:     "rating too low",
			mutate:   func(r *Review) { r.Rating = 0 },
			expected: ErrRatingInvalid,
		},
		{
			name:     "rating too high",
			mutate:   func(r *Review) { r.Rating = 6 },
			expected: ErrRatingInvalid,
		},
		{
			name:     "spoiler not chosen",
			mutate:   func(r *Review) { r.Spoiler = nil },
			expected: ErrSpoilerChoiceMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := valid
			tt.mutate(&review)
			_, err := m.Validate(review)
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestReviewValidateTrimsComment(t *testing.T) {

	var m ReviewModel

	review, err := m.Validate(Review{
		Comment: "  solid  ",
		Rating:  3,
		Spoiler: boolPtr(true),
	})
	assert.NoError(t, err)
	assert.Equal(t, "solid", review.Comment)
}

func TestWithoutRef(t *testing.T) {

	refs := []UserRef{{Key: "u1"}, {Key: "u2"}, {Key: "u3"}}

	cleaned := withoutRef(refs, "u2")
	assert.Len(t, cleaned, 2)
	assert.Equal(t, "u1", cleaned[0].Key)
	assert.Equal(t, "u3", cleaned[1].Key)

	// absent member leaves the set unchanged
	assert.Len(t, withoutRef(refs, "u9"), 3)

	// removing the only member empties the set
	assert.Nil(t, withoutRef([]UserRef{{Key: "u1"}}, "u1"))
}
