package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/comitanigiacomo/kanso-goals/docs"
	"github.com/comitanigiacomo/kanso-goals/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	GoalHandler       *GoalHandler
	PreferenceHandler *PreferenceHandler
	StatsHandler      *StatsHandler

	// DB and Redis are nil when the service runs without them.
	DB     *sqlx.DB
	Redis  *redis.Client
	Logger *zap.Logger

	RateLimit       int
	RateLimitWindow time.Duration
	CORSOrigins     []string
	SwaggerEnabled  bool
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiter(deps.Redis, deps.RateLimit, deps.RateLimitWindow, logger))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello from the server."})
	})

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode, status := http.StatusOK, "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode, status = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	if deps.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	root := router.Group("")
	deps.StatsHandler.RegisterRoutes(root)
	deps.GoalHandler.RegisterRoutes(root)
	deps.PreferenceHandler.RegisterRoutes(root)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
