package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiting/stellact/internal/app/controllers"
	"github.com/weiting/stellact/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	actionController *controllers.ActionController,
	commentController *controllers.CommentController,
	userController *controllers.UserController,
	uploadController *controllers.UploadController,
	recommendController *controllers.RecommendController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	// --- Action routes ---
	actions := v1.Group("/actions")
	{
		// Browsing is public
		actions.GET("", actionController.List)
		actions.GET("/:id", actionController.Get)

		protected := actions.Group("")
		protected.Use(authMiddleware.JWTAuth())
		{
			protected.POST("", actionController.Create)
			// Updates are partial merges either way; PATCH kept for older clients
			protected.PUT("/:id", actionController.Update)
			protected.PATCH("/:id", actionController.Update)
			protected.POST("/:id/join", actionController.Join)
			protected.POST("/:id/interact", actionController.Interact)
			protected.POST("/:id/comments", commentController.AddComment)

			protected.POST("/:id/outcomes", actionController.AddOutcome)
			protected.PUT("/:id/outcomes/:outcomeId", actionController.UpdateOutcome)
			protected.PATCH("/:id/outcomes/:outcomeId", actionController.UpdateOutcome)
			protected.DELETE("/:id/outcomes/:outcomeId", actionController.DeleteOutcome)
		}
	}

	// --- Comment routes ---
	comments := v1.Group("/comments")
	comments.Use(authMiddleware.JWTAuth())
	{
		comments.POST("/:commentId/reply", commentController.AddReply)
	}

	// --- User routes ---
	users := v1.Group("/users")
	users.Use(authMiddleware.JWTAuth())
	{
		users.GET("/me/interested", userController.Interested)
	}

	// --- Upload route ---
	v1.POST("/upload", authMiddleware.JWTAuth(), uploadController.Upload)

	// --- Recommendation route ---
	// Anonymous queries are allowed; a token only personalizes the ranking
	v1.POST("/ai/recommend", authMiddleware.OptionalAuth(), recommendController.Recommend)
}
