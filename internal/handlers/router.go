package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/justsurfingit/brightpath/internal/dtos"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// RouterConfig wires the handlers behind the /api group.
type RouterConfig struct {
	Applications    *ApplicationHandler
	AI              *AIHandler
	AllowedOrigins  []string // empty allows every origin
	AIRatePerMinute int      // per client IP; zero disables the limit
	Logger          *zap.SugaredLogger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	l := logger.OrNop(cfg.Logger)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(l))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)

		if h := cfg.Applications; h != nil {
			api.GET("/applications", h.List)
			api.GET("/applications/stats", h.Stats)
			api.GET("/applications/:id", h.Get)
			api.POST("/applications", h.Create)
			api.PUT("/applications/:id", h.Update)
			api.DELETE("/applications/:id", h.Delete)
		}

		if h := cfg.AI; h != nil {
			ai := api.Group("/ai")
			if cfg.AIRatePerMinute > 0 {
				ai.Use(RateLimit(cfg.AIRatePerMinute))
			}
			ai.POST("/cover-letter", h.CoverLetter)
			ai.POST("/professionalize-text", h.Professionalize)
		}
	}
	return r
}

// HealthCheck is GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

const (
	maxLimitedClients = 10000
	limiterIdleTTL    = 10 * time.Minute
)

// RateLimit allows perMinute requests per client IP, with bursts of the same size.
// Limiters of clients idle for limiterIdleTTL are dropped.
func RateLimit(perMinute int) gin.HandlerFunc {
	return rateLimit(perMinute, expirable.NewLRU[string, *rate.Limiter](maxLimitedClients, nil, limiterIdleTTL))
}

func rateLimit(perMinute int, limiters *expirable.LRU[string, *rate.Limiter]) gin.HandlerFunc {
	var mu sync.Mutex

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := limiters.Get(ip)
		if !ok {
			lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
		// re-adding renews the idle deadline
		limiters.Add(ip, lim)
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dtos.ErrorResponse{Message: "Too many AI requests, please try again later"})
			return
		}
		c.Next()
	}
}

func requestLogger(l *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debugw("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
