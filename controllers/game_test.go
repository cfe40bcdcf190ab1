package controllers

import (
	"ggdb-api/analytics"
	"ggdb-api/environment"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func visitsTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	// tracker without connections; the analytics switch keeps it offline
	os.Setenv("USE_ANALYTICS", "NO")
	environment.Env = &environment.Environment{Tracker: new(analytics.Tracker)}

	router := gin.New()
	router.GET("/api/games/:id/visits", GetGameVisits)
	return router
}

// the visit counter is a plain GET, it must work without a request body
func TestGetGameVisitsWithoutBody(t *testing.T) {

	router := visitsTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/games/604b6859f09f3aeecc9215c5/visits", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"visits":-1}`, w.Body.String())
}

func TestGetGameVisitsStartDTParam(t *testing.T) {

	router := visitsTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/games/604b6859f09f3aeecc9215c5/visits?startDT=2026-08-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// a malformed date is the client's fault
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/games/604b6859f09f3aeecc9215c5/visits?startDT=yesterday", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVisitsStartDTDefault(t *testing.T) {

	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/games/x/visits", nil)

	startDT, err := visitsStartDT(c)
	assert.NoError(t, err)

	// 7 days back, cut to midnight UTC
	expected := time.Now().AddDate(0, 0, -7)
	assert.Equal(t, expected.Year(), startDT.Year())
	assert.Equal(t, expected.Month(), startDT.Month())
	assert.Equal(t, expected.Day(), startDT.Day())
	assert.Equal(t, 0, startDT.Hour())
	assert.Equal(t, time.UTC, startDT.Location())
}
