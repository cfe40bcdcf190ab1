package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var creditsNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {

	tests := []struct {
		name         string
		contribution Contribution
		expected     string
	}{
		{
			name:         "status in development",
			contribution: Contribution{Status: "In Development"},
			expected:     BucketUpcoming,
		},
		{
			name:         "status upcoming",
			contribution: Contribution{Status: "Upcoming"},
			expected:     BucketUpcoming,
		},
		{
			name:         "status pre-production",
			contribution: Contribution{Status: "Pre-Production"},
			expected:     BucketUpcoming,
		},
		{
			name:         "status released",
			contribution: Contribution{Status: "Released"},
			expected:     BucketPrevious,
		},
		{
			name:         "status completed beats future date",
			contribution: Contribution{Status: "Completed", ReleaseDate: "2030-01-01"},
			expected:     BucketPrevious,
		},
		{
			name:         "unknown status falls back to the date",
			contribution: Contribution{Status: "Announced", ReleaseDate: "2030-01-01"},
			expected:     BucketUpcoming,
		},
		{
			name:         "no status, future release date",
			contribution: Contribution{ReleaseDate: "2027-11-19"},
			expected:     BucketUpcoming,
		},
		{
			name:         "no status, past release date",
			contribution: Contribution{ReleaseDate: "2019-04-26"},
			expected:     BucketPrevious,
		},
		{
			name:         "year-only release date",
			contribution: Contribution{ReleaseDate: "2030"},
			expected:     BucketUpcoming,
		},
		{
			name:         "rfc3339 release date",
			contribution: Contribution{ReleaseDate: "2027-03-15T00:00:00Z"},
			expected:     BucketUpcoming,
		},
		{
			name:         "garbage release date defaults to previous",
			contribution: Contribution{ReleaseDate: "TBA"},
			expected:     BucketPrevious,
		},
		{
			name:         "nothing at all defaults to previous",
			contribution: Contribution{},
			expected:     BucketPrevious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(&tt.contribution, creditsNow))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := Contribution{Status: "Announced", ReleaseDate: "2027-01-01"}
	first := Classify(&c, creditsNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(&c, creditsNow))
	}
}

func TestGroupCreditsModernRoles(t *testing.T) {

	contributions := []Contribution{
		{
			Title:  "Starfall Kingdom",
			Status: "Released",
			Roles: []RoleAssignment{
				{Department: "Design", Name: "Lead Designer"},
				{Department: "Writing", Name: "Narrative Designer"},
			},
		},
	}

	groups := GroupCredits(contributions, creditsNow)

	assert.Len(t, groups, 2)
	assert.Equal(t, "Design", groups[0].Department)
	assert.Equal(t, "Writing", groups[1].Department)
	assert.Len(t, groups[0].Previous, 1)
	assert.Empty(t, groups[0].Upcoming)
	assert.Equal(t, "Lead Designer", groups[0].Previous[0].Role)
	assert.Equal(t, "Narrative Designer", groups[1].Previous[0].Role)
}

func TestGroupCreditsLegacyRoleSplit(t *testing.T) {

	contributions := []Contribution{
		{
			Title:      "Neon Drift",
			Department: "Production",
			UserRole:   "Writer & Director",
			Status:     "Released",
		},
	}

	groups := GroupCredits(contributions, creditsNow)

	assert.Len(t, groups, 1)
	assert.Equal(t, "Production", groups[0].Department)
	assert.Len(t, groups[0].Previous, 2)
	assert.Equal(t, "Writer", groups[0].Previous[0].Role)
	assert.Equal(t, "Director", groups[0].Previous[1].Role)
}

func TestGroupCreditsRolesArrayWins(t *testing.T) {

	// legacy scalars present but the roles array takes precedence
	contributions := []Contribution{
		{
			Title:      "Ember Tactics",
			Department: "Old Department",
			UserRole:   "Old Role",
			Roles: []RoleAssignment{
				{Department: "Engineering", Name: "Gameplay Programmer"},
			},
		},
	}

	groups := GroupCredits(contributions, creditsNow)

	assert.Len(t, groups, 1)
	assert.Equal(t, "Engineering", groups[0].Department)
	assert.Equal(t, "Gameplay Programmer", groups[0].Previous[0].Role)
}

func TestGroupCreditsSkipRules(t *testing.T) {

	contributions := []Contribution{
		// no role information at all
		{Title: "Roleless", Department: "Design"},
		// role but no department
		{Title: "Homeless", UserRole: "Composer"},
		// modern shape with a blank department entry
		{
			Title: "Half Credited",
			Roles: []RoleAssignment{
				{Department: "", Name: "Ghost"},
				{Department: "Audio", Name: "Sound Designer"},
			},
		},
	}

	groups := GroupCredits(contributions, creditsNow)

	assert.Len(t, groups, 1)
	assert.Equal(t, "Audio", groups[0].Department)
	assert.Len(t, groups[0].Previous, 1)
	assert.Equal(t, "Sound Designer", groups[0].Previous[0].Role)
}

func TestGroupCreditsDepartmentOrder(t *testing.T) {

	contributions := []Contribution{
		{Title: "A", Department: "Writing", UserRole: "Writer"},
		{Title: "B", Department: "Design", UserRole: "Designer"},
		{Title: "C", Department: "Writing", UserRole: "Editor"},
	}

	groups := GroupCredits(contributions, creditsNow)

	// first-encounter order, later entries merge into the existing group
	assert.Len(t, groups, 2)
	assert.Equal(t, "Writing", groups[0].Department)
	assert.Equal(t, "Design", groups[1].Department)
	assert.Len(t, groups[0].Previous, 2)
}

func TestGroupCreditsBucketSplit(t *testing.T) {

	contributions := []Contribution{
		{Title: "Old", Department: "Design", UserRole: "Designer", Status: "Released"},
		{Title: "New", Department: "Design", UserRole: "Designer", Status: "In Development"},
	}

	groups := GroupCredits(contributions, creditsNow)

	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Previous, 1)
	assert.Len(t, groups[0].Upcoming, 1)
	assert.Equal(t, "Old", groups[0].Previous[0].Title)
	assert.Equal(t, "New", groups[0].Upcoming[0].Title)
}

func TestGroupCreditsEmptyInput(t *testing.T) {
	assert.Nil(t, GroupCredits(nil, creditsNow))
	assert.Nil(t, GroupCredits([]Contribution{}, creditsNow))
}

func TestNewWorkEntryPrecedence(t *testing.T) {

	siteRating := 7.8
	importedRating := 6.1

	tests := []struct {
		name         string
		contribution Contribution
		poster       string
		rating       *float64
		year         string
	}{
		{
			name: "coverImage and rating win",
			contribution: Contribution{
				CoverImage: "cover.jpg",
				Poster:     "poster.jpg",
				Rating:     &siteRating,
				GGDBRating: &importedRating,
				Year:       2021,
			},
			poster: "cover.jpg",
			rating: &siteRating,
			year:   "2021",
		},
		{
			name: "fallback to poster and ggdbRating",
			contribution: Contribution{
				Poster:      "poster.jpg",
				GGDBRating:  &importedRating,
				ReleaseDate: "2019-04-26",
			},
			poster: "poster.jpg",
			rating: &importedRating,
			year:   "2019",
		},
		{
			name:         "nothing known",
			contribution: Contribution{},
			poster:       "",
			rating:       nil,
			year:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newWorkEntry(&tt.contribution, "Role", "Department")
			assert.Equal(t, tt.poster, entry.Poster)
			assert.Equal(t, tt.rating, entry.Rating)
			assert.Equal(t, tt.year, entry.Year)
		})
	}
}

func TestNewWorkEntryStatusPointer(t *testing.T) {

	entry := newWorkEntry(&Contribution{Status: "Released"}, "Role", "Department")
	if assert.NotNil(t, entry.Status) {
		assert.Equal(t, "Released", *entry.Status)
	}

	entry = newWorkEntry(&Contribution{}, "Role", "Department")
	assert.Nil(t, entry.Status)
}
