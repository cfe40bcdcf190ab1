package controllers

import (
	"ggdb-api/apperror"
	"ggdb-api/models"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   int32
	}{
		{
			name:           "validation error maps to 422",
			err:            models.ErrCommentMissing,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   CommentMissing,
		},
		{
			name:           "rating out of range",
			err:            models.ErrRatingInvalid,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   RatingInvalid,
		},
		{
			name:           "spoiler choice missing",
			err:            models.ErrSpoilerChoiceMissing,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   SpoilerChoiceMissing,
		},
		{
			name:           "bad vote type",
			err:            models.ErrInvalidVoteType,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   InvalidVoteType,
		},
		{
			name:           "denied maps to 403",
			err:            apperror.ErrDenied,
			expectedStatus: http.StatusForbidden,
			expectedCode:   ActionDenied,
		},
		{
			name:           "write consistency check maps to its own code",
			err:            apperror.ErrMultipleRecords,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   MultipleRecords,
		},
		{
			name:           "unknown error maps to 500",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   SystemError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiError := HandleError(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, apiError.Code)
			assert.NotEmpty(t, apiError.Message)
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	status, apiError := HandleError(nil)
	assert.Equal(t, 0, status)
	assert.Equal(t, int32(0), apiError.Code)
	assert.Empty(t, apiError.Message)
}
