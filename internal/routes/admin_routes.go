package routes

import (
	"github.com/gin-gonic/gin"

	"givemap/internal/auth"
	"givemap/internal/controllers"
	"givemap/internal/middleware"
)

func AdminRoutes(r *gin.RouterGroup, ac *controllers.AdminController, requireAuth gin.HandlerFunc) {
	admin := r.Group("/admin")
	admin.Use(requireAuth)
	{
		users := admin.Group("/users", middleware.RequireCapability(auth.CapManageUsers))
		users.GET("", ac.ListUsers)
		users.GET("/:id", ac.GetUser)
		users.PUT("/:id", ac.UpdateUser)
		users.DELETE("/:id", ac.DeleteUser)

		locations := admin.Group("/locations", middleware.RequireCapability(auth.CapManageLocations))
		locations.GET("", ac.ListLocations)
		locations.POST("", ac.CreateLocation)
		locations.GET("/:id", ac.GetLocation)
		locations.PUT("/:id", ac.UpdateLocation)
		locations.DELETE("/:id", ac.DeleteLocation)

		reports := admin.Group("/reports", middleware.RequireCapability(auth.CapViewReports))
		reports.GET("/user-activity", ac.UserActivityReport)
		reports.GET("/location-data", ac.LocationDataReport)
	}
}
