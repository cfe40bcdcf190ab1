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

// ListContributions sends a person's raw filmography-style records
func ListContributions(c *gin.Context) {

	contributions, err := environment.Env.ContributionModel.ListContributions(c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		Contributions []models.Contribution `json:"contributions"`
	}{contributions}

	c.JSON(http.StatusOK, res)
}

// GetCredits sends a person's work grouped by department,
// each department split into upcoming and previous titles
func GetCredits(c *gin.Context) {

	groups, err := environment.Env.ContributionModel.GetCredits(c.Param("id"), time.Now())
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// AddContribution records a credit for a person (login required)
func AddContribution(c *gin.Context) {

	var (
		err      error
		data     models.Contribution
		apiError ErrorResponse
	)

	_, err = authentication.Authenticate(c.Request)
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

	userOID, err := models.ObjectIDErr(c.Param("id"))
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}
	data.UserID = userOID

	id, err := environment.Env.ContributionModel.CreateContribution(&data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{id})
}
