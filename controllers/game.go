package controllers

import (
	"ggdb-api/apperror"
	"ggdb-api/authentication"
	"ggdb-api/environment"
	"ggdb-api/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListGames sends the catalogue (highest-rated first, optionally one genre)
func ListGames(c *gin.Context) {

	games, err := environment.Env.GameModel.ListGames(c.Query("genre"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, games)
}

// GetGame sends a game's detail record and counts the visit
func GetGame(c *gin.Context) {

	game, err := environment.Env.GameModel.GetGame(c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// track the visit, unless the client just refreshed the page
	// (visitors may be anonymous, hence auth errors are ignored)
	userID, _ := authentication.Authenticate(c.Request)
	if environment.Env.Requests.Continue(c.ClientIP(), game.ID.Hex()) {
		environment.Env.Tracker.SaveVisitor("game", game.ID.Hex(), userID)
	}

	c.JSON(http.StatusOK, game)
}

// SimilarGames sends a short list of games in the same genre
func SimilarGames(c *gin.Context) {

	games, err := environment.Env.GameModel.SimilarGames(c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, games)
}

// AddGame creates a new catalogue entry
func AddGame(c *gin.Context) {

	var (
		err      error
		data     models.Game
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

	game, err := environment.Env.GameModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	game.MetaInfo.CreatedID = models.ObjectID(userID)
	game.MetaInfo.CreatedName, err = environment.Env.UserModel.GetUserName(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	id, err := environment.Env.GameModel.CreateGame(game)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{id})
}

// visitsStartDT reads the optional startDT query param (2006-01-02);
// absent means 7 days back, starting at midnight UTC
func visitsStartDT(c *gin.Context) (time.Time, error) {

	startStr := c.Query("startDT")
	if startStr == "" {
		startDT := time.Now().AddDate(0, 0, -7)
		return time.Date(startDT.Year(), startDT.Month(), startDT.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Parse("2006-01-02", startStr)
}

// GetGameVisits sends a game's visit count since a given date
// GET /api/games/:id/visits?startDT=2026-08-01
func GetGameVisits(c *gin.Context) {

	var apiError ErrorResponse

	startDT, err := visitsStartDT(c)
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	visits, err := environment.Env.Tracker.GetVisits(c.Param("id"), startDT)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		Visits int64 `json:"visits"`
	}{visits}

	c.JSON(http.StatusOK, res)
}

// ListGameVisitors sends the most recent registered visitors of a game
// GET /api/games/:id/visitors?startDT=2026-08-01
func ListGameVisitors(c *gin.Context) {

	var apiError ErrorResponse

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	startDT, err := visitsStartDT(c)
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	visitors, err := environment.Env.Tracker.ListVisitors(c.Param("id"), startDT)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, visitors)
}
