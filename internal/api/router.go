package api

import (
	"net/http"
	"time"

	"github.com/BlockRunAI/PredictOS/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// corsHeaders 浏览器端允许携带的请求头
var corsHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", "Origin"}

// NewRouter 注册全部路由。套利接口同时挂在 /api/arbitrage 与 /
func NewRouter(cfg config.ServerConfig, h *ArbitrageHandler, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).Error("请求处理发生panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, failure("Internal server error", newMetadata(uuid.New().String(), "", time.Now())))
	}))
	r.Use(corsMiddleware(cfg.CORSOrigins))

	if cfg.Mode == gin.DebugMode {
		// 注册pprof 方便调试和监测性能问题
		pprof.Register(r)
	}

	r.GET("/api/health", h.Health)
	for _, path := range []string{"/api/arbitrage", "/"} {
		r.POST(path, h.Analyze)
		r.OPTIONS(path, h.Preflight)
	}
	r.NoMethod(h.MethodNotAllowed)
	return r
}

// corsMiddleware OPTIONS 预检始终放行所有来源；cors_origins 只约束实际请求
func corsMiddleware(origins []string) gin.HandlerFunc {
	preflight := cors.New(corsConfig(nil))
	if len(origins) == 0 {
		return preflight
	}
	restricted := cors.New(corsConfig(origins))
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			preflight(c)
			return
		}
		restricted(c)
	}
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions, http.MethodGet},
		AllowHeaders: corsHeaders,
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

// requestLogger gin 访问日志走 logrus
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("HTTP请求")
	}
}
