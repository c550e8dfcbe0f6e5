package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"wallet_live/internal/auth"
	"wallet_live/internal/config"
	"wallet_live/internal/http/controller"
	"wallet_live/internal/http/middleware"
)

type Handlers struct {
	Notifications *controller.Handler
	Auth          *controller.AuthHandler
	Wallet        *controller.WalletHandler
}

func NewHandlers(n *controller.Handler, a *controller.AuthHandler, w *controller.WalletHandler) *Handlers {
	return &Handlers{Notifications: n, Auth: a, Wallet: w}
}

func NewRouter(cfg *config.Config, h *Handlers, tokens *auth.TokenManager, reg *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	limiter := middleware.NewRateLimiter(middleware.AuthRateLimiterConfig())
	authGroup := router.Group("/auth")
	authGroup.POST("/signup", limiter.Middleware(), h.Auth.Signup)
	authGroup.POST("/login", limiter.Middleware(), h.Auth.Login)
	authGroup.GET("/check-username", h.Auth.CheckUsername)
	authGroup.POST("/logout", h.Auth.Logout)

	notifications := router.Group("/api/notifications")
	notifications.GET("/stream", h.Notifications.Stream)
	notifications.POST("", h.Notifications.CreateNotification)
	notifications.POST("/publish", h.Notifications.PublishEvent)
	notifications.GET("/connected-count", h.Notifications.ConnectedCount)

	wallet := router.Group("/api/wallet", middleware.BearerAuth(tokens))
	wallet.GET("/balance", h.Wallet.Balance)
	wallet.GET("/transactions", h.Wallet.Transactions)
	wallet.GET("/chart", h.Wallet.Chart)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "Cache-Control"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
