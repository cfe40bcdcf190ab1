package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)

// user
var (
	ErrUserNameNotAvailable = errors.New("user name is not available")
	ErrEMailAddressTaken    = errors.New("email-address is already used")
	ErrInvalidUser          = errors.New("invalid user name or password")
	ErrInvalidPassword      = errors.New("password does not meet rules")
)

// game
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrGameTitleMissing = errors.New("game title is required")
)

// review
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrCommentMissing       = errors.New("review text is required")
	ErrRatingInvalid        = errors.New("rating must be between 1 and 5")
	ErrSpoilerChoiceMissing = errors.New("spoiler flag must be set")
	ErrInvalidVoteType      = errors.New("vote type must be like, dislike or null")
)
