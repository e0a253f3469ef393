package routes

import (
	"github.com/gin-gonic/gin"

	"givemap/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, wc *controllers.WebSocketController) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/locations", wc.Locations)
	}
}
