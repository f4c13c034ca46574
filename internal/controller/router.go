package controller

import (
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/controller/handlers"
	"github.com/Freeeeeet/nurse_mentorship/internal/controller/middleware"
	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig настройки HTTP слоя
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	UploadDir      string
	Production     bool
}

// NewRouter собирает gin engine со всеми маршрутами /api/v1
func NewRouter(h *handlers.Handlers, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	if cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}

	// Health check
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.GET("/health", h.Health)
		v1.GET("/mentors/availability", h.ListSlots)
		v1.GET("/mentors/:id/availability/week.png", h.MentorWeekImage)
		v1.GET("/coupons/:code", h.CheckCoupon)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			protected.GET("/me", h.GetMe)
			protected.POST("/uploads", h.Upload)

			// Mentor bookings
			protected.POST("/mentors/availability/:slotId/book", h.BookSlot)
			protected.GET("/my/mentor-bookings", h.MyBookings)
			protected.PUT("/my/mentor-bookings/:bookingId/cancel", h.CancelBooking)
			protected.POST("/sessions/:bookingId/feedback", h.SubmitFeedback)

			// Assessments
			protected.GET("/assessments", h.ListAssessments)
			protected.GET("/assessments/:id", h.GetAssessment)
			protected.POST("/assessments/:id/submit", h.SubmitAssessment)
			protected.GET("/assessments/result/:id", h.AssessmentResult)
			protected.GET("/my/assessment-attempts", h.MyAttempts)

			// Payments
			protected.POST("/payments/quote", h.Quote)
			protected.POST("/payments/checkout", h.Checkout)
			protected.GET("/my/purchases", h.MyPurchases)

			// News, events, workshops, sessions
			protected.GET("/content", h.ListContent)
			protected.GET("/content/:id", h.GetContent)

			// Mentor routes
			mentor := protected.Group("/mentor")
			mentor.Use(middleware.RoleMiddleware(model.RoleMentor, model.RoleAdmin))
			{
				mentor.POST("/availability", h.CreateSlot)
				mentor.PUT("/availability/:id/deactivate", h.DeactivateSlot)
				mentor.GET("/bookings", h.MentorBookings)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
			{
				admin.POST("/users", h.RegisterUser)

				admin.POST("/assessments", h.CreateAssessment)
				admin.PUT("/assessments/:id", h.UpdateAssessment)
				admin.DELETE("/assessments/:id", h.DeleteAssessment)

				admin.PUT("/mentor-bookings/:id/complete", h.CompleteBooking)

				admin.POST("/content", h.CreateContent)
				admin.PUT("/content/:id", h.UpdateContent)
				admin.PUT("/content/:id/status", h.SetContentStatus)
				admin.DELETE("/content/:id", h.DeleteContent)
			}
		}
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
