package main

import (
	"fmt"
	"ggdb-api/authentication"
	"ggdb-api/controllers"
	"ggdb-api/middleware"
	"os"
)

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// auth-related
	router.POST("/login", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/refresh", controllers.Refresh) // no middleware, the at may have expired
	router.POST("/register", controllers.Register)

	router.POST("/user/exists", controllers.UserExists)
	router.POST("/email/exists", controllers.EMailExists)

	// user-mgmt
	router.GET("/users/:id", authentication.TokenAuthMiddleware(), controllers.GetUser)
	router.POST("/user/changePass", authentication.TokenAuthMiddleware(), controllers.ChangePassword)
	router.POST("/user/verifyPass", authentication.TokenAuthMiddleware(), controllers.VerifyPassword)

	// public site API
	// GET has no BODY (Go/Gin & Postman support it, Angular doesn't) - hence query params
	router.GET("/api/games", controllers.ListGames)
	router.GET("/api/games/:id", controllers.GetGame)
	router.GET("/api/games/:id/similar", controllers.SimilarGames)
	router.POST("/api/games", authentication.TokenAuthMiddleware(), controllers.AddGame)

	// statistics
	router.GET("/api/games/:id/visits", controllers.GetGameVisits)
	router.GET("/api/games/:id/visitors", authentication.TokenAuthMiddleware(), controllers.ListGameVisitors)

	// reviews & voting
	router.GET("/api/reviews/:id", controllers.ListReviews) // :id = game
	router.GET("/api/reviews/:id/summary", controllers.GetReviewSummary)
	router.POST("/api/reviews/:id", authentication.TokenAuthMiddleware(), controllers.AddReview)
	router.PATCH("/api/reviews/:id/vote", authentication.TokenAuthMiddleware(), controllers.CastVote)
	router.DELETE("/api/reviews/:id", authentication.TokenAuthMiddleware(), controllers.DeleteReview)

	// people & credits
	router.GET("/api/users/by-slug/:slug", controllers.GetUserBySlug)
	router.GET("/api/users/:id/contributions", controllers.ListContributions)
	router.GET("/api/users/:id/credits", controllers.GetCredits)
	router.POST("/api/users/:id/contributions", authentication.TokenAuthMiddleware(), controllers.AddContribution)

	// system tools
	router.GET("/monitor/requests/count", authentication.TokenAuthMiddleware(), controllers.CountRequests)
	router.GET("/monitor/requests/dump", authentication.TokenAuthMiddleware(), controllers.DumpRequests)
	router.POST("/monitor/requests/flush", authentication.TokenAuthMiddleware(), controllers.FlushRequests)
	router.POST("/monitor/visits/replicate", authentication.TokenAuthMiddleware(), controllers.ReplicateVisits)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV not set"))
	}
}
