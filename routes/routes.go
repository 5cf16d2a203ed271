package routes

import (
	"time"

	"metro/handlers"
	"metro/middleware"
	"metro/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes registers customer endpoints.
func RegisterCustomerRoutes(r *gin.Engine, h *handlers.CustomerHandler) {
	api := r.Group("/api/customer")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleCustomer))
	{
		api.GET("/dashboard", h.Dashboard)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings", h.ListMyBookings)
		api.GET("/bookings/:id", h.GetMyBooking)
		api.POST("/bookings/:id/pay-remaining", h.PayRemaining)
		api.POST("/bookings/:id/cancel", h.Cancel)
		api.PUT("/bookings/:id/reschedule", h.Reschedule)
		api.GET("/bookings/:id/invoice", h.DownloadInvoice)
		api.POST("/reviews", h.SubmitReview)
		api.POST("/uploads", h.UploadURL)
	}
}

// RegisterPartnerRoutes registers partner endpoints.
func RegisterPartnerRoutes(r *gin.Engine, h *handlers.PartnerHandler) {
	api := r.Group("/api/pro")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RolePartner))
	{
		api.GET("/job-requests", h.ListJobRequests)
		api.POST("/job-requests/:id/reject", h.RejectRequest)
		api.GET("/jobs", h.ListMyJobs)
		api.POST("/jobs/:id/items/:itemId/accept", h.Accept)
		api.POST("/jobs/:id/items/:itemId/confirm", h.Confirm)
		api.POST("/jobs/:id/items/:itemId/decline", h.Decline)
		api.POST("/jobs/:id/items/:itemId/start", h.StartJob)
		api.POST("/jobs/:id/items/:itemId/complete", h.CompleteJob)

		api.GET("/earnings", h.Earnings)
		api.GET("/bank-details", h.GetBankDetails)
		api.PUT("/bank-details", h.UpdateBankDetails)
		api.GET("/availability", h.GetAvailability)
		api.PUT("/availability", h.SetAvailability)
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)
		api.GET("/reviews/summary", h.ReviewSummary)
		api.POST("/uploads", h.UploadURL)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.AdminHandler) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/bookings", h.ListBookings)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/cancel", h.Cancel)
		api.POST("/bookings/:id/broadcast", h.Broadcast)
		api.GET("/bookings/:id/items/:itemId/candidates", h.Candidates)
		api.POST("/bookings/:id/items/:itemId/assign", h.AssignPartner)
		api.POST("/bookings/:id/items/:itemId/payout", h.Payout)
		api.GET("/partners/:partnerId", h.PartnerDetails)
		api.GET("/reviews", h.ListReviews)
		api.PUT("/reviews/:id", h.UpdateReviewStatus)
		api.DELETE("/reviews/:id", h.DeleteReview)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and CORS.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, corsOrigins []string) {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: !containsWildcard(corsOrigins),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCustomerRoutes(r, hb.Customer)
	RegisterPartnerRoutes(r, hb.Partner)
	RegisterAdminRoutes(r, hb.Admin)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
