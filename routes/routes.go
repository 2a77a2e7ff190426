package routes

import (
	"simbengride/internal/handlers"
	"simbengride/internal/middleware"
	"simbengride/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up login, registration and password recovery
func SetupAuthRoutes(r *gin.RouterGroup, h *handlers.AuthHandler, sessions services.SessionService) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register/rider", h.RegisterRider)
		auth.POST("/register/owner", h.RegisterOwner)
		auth.POST("/password/reset", h.ResetPassword)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(sessions))
	{
		protected.POST("/logout", h.Logout)
	}
}

// SetupProfileRoutes sets up profile editing and the theme preference
func SetupProfileRoutes(r *gin.RouterGroup, h *handlers.ProfileHandler, sessions services.SessionService) {
	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(sessions))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/password", h.ChangePassword)
	}

	prefs := r.Group("/preferences")
	{
		prefs.GET("/theme", h.GetTheme)
		prefs.PUT("/theme", h.SetTheme)
	}
}

// SetupAreaRoutes sets up base-area reads and admin-only management
func SetupAreaRoutes(r *gin.RouterGroup, h *handlers.AreaHandler, sessions services.SessionService) {
	// Registration needs the area list before any session exists.
	r.GET("/areas", h.ListAreas)

	admin := r.Group("/areas")
	admin.Use(middleware.AuthRequired(sessions), middleware.AdminRequired())
	{
		admin.POST("", h.AddArea)
		admin.PUT("/:id", h.UpdateArea)
		admin.DELETE("/:id", h.DeleteArea)
	}
}

// SetupOwnerRoutes sets up the availability toggle
func SetupOwnerRoutes(r *gin.RouterGroup, h *handlers.OwnerHandler, sessions services.SessionService) {
	owner := r.Group("/owner")
	owner.Use(middleware.AuthRequired(sessions), middleware.OwnerRequired())
	{
		owner.POST("/availability", h.ToggleAvailability)
	}
}

// SetupPaymentRoutes sets up the subscription renewal handshake
func SetupPaymentRoutes(r *gin.RouterGroup, h *handlers.PaymentHandler, sessions services.SessionService) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthRequired(sessions))
	{
		payments.GET("", h.GetFlow)
		payments.POST("/open", h.OpenFlow)
		payments.POST("/initiate", h.Initiate)
		payments.POST("/verify", h.Verify)
		payments.POST("/retry-verify", h.RetryVerify)
		payments.POST("/close", h.CloseFlow)
	}
}

// SetupFeedRoutes sets up the rider's nearby-vehicle list and live stream
func SetupFeedRoutes(r *gin.RouterGroup, h *handlers.FeedHandler, sessions services.SessionService) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(sessions), middleware.RiderRequired())
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/live", h.LiveVehicles)
	}
}
