package routes

import (
	"github.com/gin-gonic/gin"

	"givemap/internal/auth"
	"givemap/internal/controllers"
	"givemap/internal/middleware"
)

func LocationRoutes(r *gin.RouterGroup, lc *controllers.LocationController, requireAuth gin.HandlerFunc) {
	location := r.Group("/location")
	{
		location.GET("", lc.List)
		location.GET("/search", lc.Search)
		location.GET("/geojson", lc.GeoJSON)
		location.GET("/:id", lc.Get)
		location.GET("/:id/needs", lc.ListNeeds)
		location.GET("/:id/feedback", lc.ListFeedback)
	}

	member := location.Group("")
	member.Use(requireAuth)
	{
		member.POST("", lc.Create)
		member.PUT("/:id", lc.Update)
		member.POST("/:id/images", lc.UploadImages)
		member.POST("/:id/feedback", lc.AddFeedback)
		member.POST("/:id/needs", lc.AddNeed)
		member.PUT("/:id/needs/:needId", lc.UpdateNeed)
		member.DELETE("/:id/needs/:needId", lc.DeleteNeed)
		member.POST("/needs/:needId/donations", lc.OfferDonation)
		member.GET("/needs/:needId/donations", lc.DonationsForNeed)
		member.GET("/user/donations", lc.UserDonations)
		member.PUT("/donations/:id/status", middleware.RequireCapability(auth.CapUpdateDonationStatus), lc.UpdateDonationStatus)
	}
}
