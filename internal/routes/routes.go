package routes

import (
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"givemap/internal/auth"
	"givemap/internal/controllers"
	"givemap/internal/events"
	"givemap/internal/logger"
	"givemap/internal/middleware"
	"givemap/internal/services"
	"givemap/internal/storage"
)

// Dependencies are the wired components the router dispatches to.
type Dependencies struct {
	DB        *gorm.DB
	Tokens    *auth.TokenManager
	Auth      *services.AuthService
	Locations *services.LocationService
	Feedback  *services.FeedbackService
	Reports   *services.ReportService
	Users     *services.UserService
	Images    *storage.ImageStore
	Hub       *events.Hub
	Redis     *redis.Client // nil disables rate limiting

	AllowedOrigins     []string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
}

func SetupRouter(d Dependencies) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(ginlog.SetLogger(ginlog.WithWriter(logger.Writer()), ginlog.WithSkipPath([]string{"/health"})))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", controllers.NewHealthController(d.DB).Health)
	r.Static("/uploads", d.Images.Dir())

	requireAuth := middleware.RequireAuth(d.Tokens, d.Auth)

	// Long-lived connections stay outside the request timeout.
	WebSocketRoutes(r, controllers.NewWebSocketController(d.Hub, d.AllowedOrigins))

	api := r.Group("/")
	if d.RequestTimeout > 0 {
		api.Use(middleware.Timeout(d.RequestTimeout))
	}

	limit := func(c *gin.Context) { c.Next() }
	if d.Redis != nil {
		limit = middleware.RateLimit(d.Redis, d.RateLimitPerMinute)
	}

	UserRoutes(api, controllers.NewAuthController(d.Auth), requireAuth, limit)
	LocationRoutes(api, controllers.NewLocationController(d.Locations, d.Feedback, d.Images), requireAuth)
	AdminRoutes(api, controllers.NewAdminController(d.Users, d.Locations, d.Reports, d.Images), requireAuth)

	return r
}
