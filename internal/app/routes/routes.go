package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unicen/alumni-registry/internal/app/controllers"
	"github.com/unicen/alumni-registry/internal/middleware"
	"github.com/unicen/alumni-registry/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	graduateController *controllers.GraduateController,
	adminController *controllers.AdminController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Real-time map feed, public like the map itself
	router.GET("/ws/map", wsHandler.HandleConnection)

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login/graduate", authController.LoginGraduate)
		auth.POST("/login/admin", authController.LoginAdmin)
		auth.POST("/verify", authController.VerifyToken)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Public graduate routes ---
	graduates := v1.Group("/graduates")
	{
		graduates.POST("/register", graduateController.Register)
		graduates.GET("/map", graduateController.GetMap)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Graduate self-service
	graduateProtected := authenticated.Group("")
	graduateProtected.Use(authMiddleware.GraduateRequired())
	{
		graduateProtected.POST("/auth/logout", authController.Logout)
		graduateProtected.GET("/graduates/profile", graduateController.GetProfile)
		graduateProtected.PUT("/graduates/profile", graduateController.UpdateProfile)
		graduateProtected.DELETE("/graduates/profile", graduateController.DeleteProfile)
		graduateProtected.POST("/graduates/profile/photo", graduateController.UploadPhoto)
	}

	// Administration
	adminProtected := authenticated.Group("")
	adminProtected.Use(authMiddleware.AdminRequired())
	{
		adminProtected.GET("/graduates", graduateController.List)
		adminProtected.GET("/graduates/:id", graduateController.GetByID)
		adminProtected.PUT("/graduates/:id", graduateController.Update)
		adminProtected.PUT("/graduates/:id/status", graduateController.UpdateStatus)
		adminProtected.DELETE("/graduates/:id", graduateController.Delete)

		adminProtected.POST("/admins", adminController.Create)
		adminProtected.PUT("/admins/:id/password", adminController.UpdatePassword)
		adminProtected.DELETE("/admins/:id", adminController.Delete)
		adminProtected.GET("/admins/stats", adminController.Stats)
	}
}
