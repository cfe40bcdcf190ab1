package controllers

import (
	"ggdb-api/apperror"
	"ggdb-api/authentication"
	"ggdb-api/environment"
	"ggdb-api/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListReviews sends a game's reviews (newest first) plus the rating summary.
// Login is optional; with a session the requesting user's own votes are resolved.
func ListReviews(c *gin.Context) {

	var apiError ErrorResponse

	// anonymous visitors simply get no userVote
	userID, _ := authentication.Authenticate(c.Request)

	var limit int64
	if s := c.Query("limit"); s != "" {
		l, err := strconv.ParseInt(s, 10, 64)
		if err != nil || l < 0 {
			apiError.Code = InvalidRequest
			apiError.Message = apiError.String(apiError.Code)
			c.JSON(http.StatusUnprocessableEntity, apiError)
			return
		}
		limit = l
	}

	hideSpoilers := c.Query("hideSpoilers") == "true"

	reviews, err := environment.Env.ReviewModel.ListReviews(c.Param("id"), limit, userID, hideSpoilers)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	summary, err := environment.Env.ReviewModel.Summarize(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		Reviews []models.Review      `json:"reviews"`
		Summary models.ReviewSummary `json:"summary"`
	}{reviews, *summary}

	c.JSON(http.StatusOK, res)
}

// GetReviewSummary sends the aggregate rating of a game (widget data only)
func GetReviewSummary(c *gin.Context) {

	summary, err := environment.Env.ReviewModel.Summarize(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddReview creates a review for a game (login required)
func AddReview(c *gin.Context) {

	var (
		err      error
		data     models.Review
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	review, err := environment.Env.ReviewModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	oid, err := models.ObjectIDErr(c.Param("id"))
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}
	review.GameID = oid
	review.CreatedID = models.ObjectID(userID)

	id, err := environment.Env.ReviewModel.Create(review)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{id})
}

// DeleteReview removes a review (author or moderator)
func DeleteReview(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.ReviewModel.Delete(c.Param("id"), models.ObjectID(userID))
	if err != nil {
		if err == apperror.ErrDenied {
			c.Status(http.StatusForbidden)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// CastVote sets, switches or retracts the user's like/dislike on a review.
// The response carries the authoritative counters, clients must not add up
// on their own.
func CastVote(c *gin.Context) {

	var (
		err      error
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// null retracts a previous vote
	data := struct {
		VoteType *models.VoteType `json:"voteType"`
	}{}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	result, err := environment.Env.ReviewModel.CastVote(c.Param("id"), models.ObjectID(userID), data.VoteType)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, result)
}
