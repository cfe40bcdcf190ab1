package main

import (
	"fmt"
	"ggdb-api/authentication"
	"ggdb-api/database"
	"ggdb-api/environment"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// runs before main, package init order is undefined though
func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Connect to main database here (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to JWT Store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to Analysis-DB (redis)
	err = database.OpenRedisConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseRedisConnection()

	// connect to the time series store (influx)
	err = database.OpenInfluxConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseInfluxConnection()

	// Initialize the Models
	environment.Initialize()

	// background housekeeping: archive cached visits, expire stale request entries
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			environment.Env.Tracker.Replicate()
			environment.Env.Requests.Flush()
		}
	}()

	fmt.Println("GGDB-API running...")
	handleRequests()
}
