package controllers

import (
	"ggdb-api/authentication"
	"ggdb-api/environment"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CountRequests(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, environment.Env.Requests.Count())
}

func DumpRequests(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, environment.Env.Requests.Dump(50))
}

func ReplicateVisits(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	environment.Env.Tracker.Replicate()

	c.Status(http.StatusOK)
}

func FlushRequests(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	environment.Env.Requests.Flush()

	c.Status(http.StatusOK)
}
