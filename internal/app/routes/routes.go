// Package routes registers all HTTP endpoints
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clicksapp/clicks/internal/app/controllers"
	"github.com/clicksapp/clicks/internal/app/services"
	"github.com/clicksapp/clicks/internal/middleware"
	"github.com/clicksapp/clicks/internal/pkg/auth"
)

// SetupRoutes registers all API routes on the engine
func SetupRoutes(router *gin.Engine, svcs *services.Services, jwtService *auth.JWTService) {
	authController := controllers.NewAuthController(svcs.Auth)
	clickController := controllers.NewClickController(svcs.Clicks)
	profileController := controllers.NewProfileController(svcs.Profiles)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public endpoints
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/refresh", authController.RefreshToken)
	}

	// Authenticated endpoints
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/auth/me", authController.Me)

		protected.GET("/users/me/profile", profileController.Get)
		protected.PUT("/users/me/profile", profileController.Update)
		protected.POST("/users/me/profile/avatar", profileController.UpdateAvatar)

		clicks := protected.Group("/clicks")
		{
			clicks.POST("", clickController.Create)
			clicks.GET("", clickController.List)
			clicks.GET("/:id", clickController.Get)
			clicks.PUT("/:id", clickController.Update)
			clicks.DELETE("/:id", clickController.Delete)

			clicks.GET("/:id/members", clickController.Members)
			clicks.POST("/:id/members", clickController.Join)
			clicks.DELETE("/:id/members", clickController.Leave)
			clicks.DELETE("/:id/members/:userId", clickController.RemoveMember)
			clicks.PUT("/:id/members/:userId/role", clickController.UpdateMemberRole)
			clicks.POST("/:id/invitations", clickController.Invite)
		}
	}
}
