package routes

import (
	"github.com/gin-gonic/gin"

	"givemap/internal/controllers"
)

func UserRoutes(r *gin.RouterGroup, ac *controllers.AuthController, requireAuth, limit gin.HandlerFunc) {
	user := r.Group("/user")
	{
		user.POST("/register", limit, ac.Register)
		user.POST("/login", limit, ac.Login)
		user.POST("/forgot-password", limit, ac.ForgotPassword)
		user.POST("/reset-password", limit, ac.ResetPassword)
		user.GET("/me", requireAuth, ac.Me)
	}
}
