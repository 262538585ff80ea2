package routes

import (
	"github.com/gamedex/gamedex-backend/internal/handler"
	"github.com/gamedex/gamedex-backend/internal/middleware"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	gameHandler *handler.GameHandler,
	correctionHandler *handler.CorrectionHandler,
	submissionHandler *handler.SubmissionHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
	auditHandler *handler.AuditHandler,
	leaderboardHandler *handler.LeaderboardHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/session", authHandler.CreateSession)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Public catalog
	games := api.Group("/games")
	games.GET("", gameHandler.List)
	games.GET("/:slug", gameHandler.Get)
	games.GET("/:slug/history", gameHandler.History)

	// Corrections (submit needs a session; review needs reviewer role)
	games.POST("/:slug/corrections", middleware.JWTAuth(jwtManager), correctionHandler.Submit)

	corrections := api.Group("/corrections", middleware.JWTAuth(jwtManager))
	corrections.GET("", correctionHandler.List)
	corrections.GET("/:id", correctionHandler.Get)
	corrections.POST("/:id/review", middleware.RequireReviewer(), correctionHandler.Review)

	// Game submissions
	submissions := api.Group("/submissions", middleware.JWTAuth(jwtManager))
	submissions.POST("", submissionHandler.Submit)
	submissions.GET("", submissionHandler.List)
	submissions.GET("/:id", submissionHandler.Get)
	submissions.POST("/:id/review", middleware.RequireReviewer(), submissionHandler.Review)
	submissions.POST("/:id/publish", middleware.RequireAdmin(), submissionHandler.Publish)

	// Profiles and settings. The profile read is public but recognizes a
	// session when one is offered, so owners can see their own hidden stats.
	users := api.Group("/users")
	users.GET("/:id", middleware.OptionalJWTAuth(jwtManager), userHandler.GetProfile)
	users.PATCH("/me/settings", middleware.JWTAuth(jwtManager), userHandler.UpdateSettings)
	users.DELETE("/me", middleware.JWTAuth(jwtManager), userHandler.DeleteAccount)
	users.POST("/me/reviewer-application", middleware.JWTAuth(jwtManager), userHandler.ApplyReviewer)

	// Public read surfaces
	api.GET("/audit-logs", auditHandler.List)
	api.GET("/leaderboard", leaderboardHandler.Get)

	// Admin console. Role gating here is a cheap filter on token claims;
	// the services re-check the stored row before acting.
	admin := api.Group("/admin", middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.UpdateRole)
	admin.PUT("/users/:id/status", adminHandler.UpdateStatus)
	admin.POST("/users/:id/restore", adminHandler.RestoreUser)
	admin.GET("/users/:id/moderation", adminHandler.ModerationHistory)
	admin.GET("/reviewer-applications", adminHandler.ListApplications)
	admin.POST("/reviewer-applications/:id/review", adminHandler.ReviewApplication)
	admin.GET("/banned-providers", adminHandler.ListBannedProviders)
	admin.POST("/banned-providers", adminHandler.BanProvider)
	admin.DELETE("/banned-providers/:provider", adminHandler.UnbanProvider)
}
