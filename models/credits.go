package models

import (
	"context"
	"ggdb-api/apperror"
	"ggdb-api/helpers"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// classification buckets of a contribution
const (
	BucketUpcoming = "upcoming"
	BucketPrevious = "previous"
)

// RoleAssignment is the modern role shape: every role carries its own department
type RoleAssignment struct {
	Department string `json:"department" bson:"department"`
	Name       string `json:"name" bson:"name"`
}

// Contribution is the raw, backend-shaped record linking a user to a game project.
// The shape grew over time: older documents carry a scalar userRole/role plus one
// department, newer ones a roles array. Overlapping fields (rating/ggdbRating)
// are resolved by defined precedence when building WorkEntries - nowhere else.
type Contribution struct {
	ID          primitive.ObjectID `json:"-" bson:"_id"`
	UserID      primitive.ObjectID `json:"-" bson:"userID"`
	GameID      primitive.ObjectID `json:"gameId" bson:"gameID"`
	Title       string             `json:"title" bson:"title"`
	CoverImage  string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Poster      string             `json:"poster,omitempty" bson:"poster,omitempty"` // legacy name for coverImage
	ReleaseDate string             `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
	Year        int32              `json:"year,omitempty" bson:"year,omitempty"`
	Status      string             `json:"status,omitempty" bson:"status,omitempty"`
	Department  string             `json:"department,omitempty" bson:"department,omitempty"` // legacy, scalar
	UserRole    string             `json:"userRole,omitempty" bson:"userRole,omitempty"`     // legacy, "A & B" style
	Role        string             `json:"role,omitempty" bson:"role,omitempty"`             // even older legacy name
	Roles       []RoleAssignment   `json:"roles,omitempty" bson:"roles,omitempty"`           // modern shape, wins if non-empty
	Rating      *float64           `json:"rating,omitempty" bson:"rating,omitempty"`
	GGDBRating  *float64           `json:"ggdbRating,omitempty" bson:"ggdbRating,omitempty"`
}

// WorkEntry is the normalized view model of one role in one game,
// rebuilt on every request and never mutated in place
type WorkEntry struct {
	Title      string             `json:"title"`
	Role       string             `json:"role"`
	Department string             `json:"department"`
	Poster     string             `json:"poster"`
	Year       string             `json:"year"`
	Rating     *float64           `json:"rating"`
	Status     *string            `json:"status"`
	GameID     primitive.ObjectID `json:"gameId"`
}

// CreditGroup collects a department's work entries, split into upcoming and
// previous work. The grouped result is a slice (not a map) so the
// first-encountered department order survives for stable accordion display.
type CreditGroup struct {
	Department string      `json:"department"`
	Upcoming   []WorkEntry `json:"upcoming"`
	Previous   []WorkEntry `json:"previous"`
}

// ContributionModel provides the logic to the interface and access to the database
type ContributionModel struct {
	Collection *mongo.Collection
}

// Classify buckets a single contribution as upcoming or previous work.
// Explicit status text overrides the inferred date; absence of both signals
// defaults to "previous" (already-happened work is the common case).
// The function is total: malformed status or date never raise an error.
func Classify(contribution *Contribution, now time.Time) string {

	status := strings.ToLower(strings.TrimSpace(contribution.Status))
	if status != "" {
		if strings.Contains(status, "develop") ||
			strings.Contains(status, "upcoming") ||
			strings.Contains(status, "pre") {
			return BucketUpcoming
		}
		if strings.Contains(status, "released") || strings.Contains(status, "completed") {
			return BucketPrevious
		}
		// unknown status text: fall through to the date check
	}

	if release, ok := parseReleaseDate(contribution.ReleaseDate); ok {
		if release.After(now) {
			return BucketUpcoming
		}
	}

	return BucketPrevious
}

// GroupCredits transforms a flat contribution list into department groups.
// Classification happens once per contribution; all of its role entries land
// in the same bucket. Records without any role and roles without a department
// are skipped silently - bad credit data never surfaces as an error.
func GroupCredits(contributions []Contribution, now time.Time) []CreditGroup {

	var groups []CreditGroup
	index := make(map[string]int) // department -> position in groups

	for i := range contributions {
		c := &contributions[i]
		bucket := Classify(c, now)

		for _, role := range creditRoles(c) {
			pos, ok := index[role.Department]
			if !ok {
				groups = append(groups, CreditGroup{Department: role.Department})
				pos = len(groups) - 1
				index[role.Department] = pos
			}

			entry := newWorkEntry(c, role.Name, role.Department)
			if bucket == BucketUpcoming {
				groups[pos].Upcoming = append(groups[pos].Upcoming, entry)
			} else {
				groups[pos].Previous = append(groups[pos].Previous, entry)
			}
		}
	}

	return groups
}

// creditRoles resolves the role source of one contribution into a uniform list.
// A non-empty roles array wins; otherwise the legacy scalar fields are split
// on the literal " & " separator and share the single department.
func creditRoles(c *Contribution) []RoleAssignment {

	var roles []RoleAssignment

	if len(c.Roles) > 0 {
		for _, r := range c.Roles {
			department := strings.TrimSpace(r.Department)
			if department == "" {
				continue // never create a blank department key
			}
			roles = append(roles, RoleAssignment{
				Department: department,
				Name:       strings.TrimSpace(r.Name),
			})
		}
		return roles
	}

	roleStr := c.UserRole
	if roleStr == "" {
		roleStr = c.Role
	}
	if roleStr == "" {
		return nil // no role information at all - skip the record
	}

	department := strings.TrimSpace(c.Department)
	if department == "" {
		return nil
	}

	for _, name := range strings.Split(roleStr, " & ") {
		roles = append(roles, RoleAssignment{
			Department: department,
			Name:       strings.TrimSpace(name),
		})
	}

	return roles
}

// newWorkEntry maps a contribution's overlapping fields by defined precedence
func newWorkEntry(c *Contribution, role string, department string) WorkEntry {

	poster := c.CoverImage
	if poster == "" {
		poster = c.Poster
	}

	rating := c.Rating
	if rating == nil {
		rating = c.GGDBRating
	}

	var status *string
	if c.Status != "" {
		s := c.Status
		status = &s
	}

	return WorkEntry{
		Title:      c.Title,
		Role:       role,
		Department: department,
		Poster:     poster,
		Year:       creditYear(c),
		Rating:     rating,
		Status:     status,
		GameID:     c.GameID,
	}
}

// creditYear prefers the explicit year field, then the release date's year
func creditYear(c *Contribution) string {

	if c.Year != 0 {
		return strconv.Itoa(int(c.Year))
	}

	if release, ok := parseReleaseDate(c.ReleaseDate); ok {
		return strconv.Itoa(release.Year())
	}

	return ""
}

// release dates arrive in several formats depending on the importing source
var releaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006",
}

// parseReleaseDate treats anything unparsable as absent, it never fails
func parseReleaseDate(value string) (time.Time, bool) {

	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// CreateContribution records a credit - the caller sets the UserID
func (m ContributionModel) CreateContribution(contribution *Contribution) (string, error) {

	if strings.TrimSpace(contribution.Title) == "" {
		return "", ErrGameTitleMissing
	}

	contribution.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(ctx, contribution)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListContributions returns a user's raw contribution records in source order
func (m ContributionModel) ListContributions(userID string) ([]Contribution, error) {

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// keep insertion order (oldest first), it drives the accordion order
	sort := bson.D{
		{Key: "_id", Value: 1},
	}

	opts := options.Find().SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.D{{Key: "userID", Value: oid}}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var contributions []Contribution

	err = cursor.All(ctx, &contributions)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if contributions == nil {
		return nil, apperror.ErrNoData
	}

	return contributions, nil
}

// GetCredits returns a user's contributions grouped by department
func (m ContributionModel) GetCredits(userID string, now time.Time) ([]CreditGroup, error) {

	contributions, err := m.ListContributions(userID)
	if err != nil {
		return nil, err
	}

	groups := GroupCredits(contributions, now)
	if groups == nil {
		return nil, apperror.ErrNoData
	}

	return groups, nil
}
