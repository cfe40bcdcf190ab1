package controllers

import (
	"ggdb-api/database"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLookups sends the code/text tables (platforms, genres, roles, ...)
func ListLookups(c *gin.Context) {
	lookups, err := database.GetLookups()
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, lookups)
}
