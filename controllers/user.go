package controllers

import (
	"ggdb-api/apperror"
	"ggdb-api/authentication"
	"ggdb-api/environment"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser sends a user's account data (requires a session)
func GetUser(c *gin.Context) {

	// userID (currentUser) could be used to check a user's permission to view another profile
	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	user, err := environment.Env.UserModel.GetUserByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// don't send password hash
	user.Password = ""

	c.JSON(http.StatusOK, &user)
}

// GetUserBySlug sends a public profile, addressed by its URL key
func GetUserBySlug(c *gin.Context) {

	user, err := environment.Env.UserModel.GetUserBySlug(c.Param("slug"))
	if err != nil {
		// nothing found (not an error to the client)
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		// technical errors
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// public view - strip account internals
	user.Password = ""
	user.EMailAddress = ""

	c.JSON(http.StatusOK, &user)
}
