package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/events"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	if cfg.MetricsEnabled {
		router.Use(MetricsMiddleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Use(ReadOnlyMiddleware(cfg.ReadOnly))

	healthController := NewHealthController(cfg.Database, cfg.Redis, cfg.PersistStatus, cfg.Version).
		WithSchedule(cfg.Schedule).
		WithSnapshotClock(cfg.SnapshotClock)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")

	if cfg.DataGateway != nil {
		dataController := NewDataController(cfg.DataGateway, cfg.Auditor)
		api.GET("/data", dataController.Get)
		api.PUT("/data", dataController.Put)
	}

	recent := cfg.Recent
	if recent == nil {
		recent = events.NewRecent(0)
	}
	notificationsController := NewNotificationsController(recent)
	api.GET("/notifications", notificationsController.List)

	if cfg.Store == nil {
		return router
	}

	booksController := NewBooksController(cfg.Store)
	api.GET("/books", booksController.ListBooks)
	api.GET("/books/upcoming", booksController.ListUpcoming)
	api.GET("/books/:id", booksController.GetBook)
	api.POST("/books", booksController.AddBook)

	reviewsController := NewReviewsController(cfg.Store)
	api.GET("/books/:id/reviews", reviewsController.ListByBook)
	api.GET("/books/:id/my-review", reviewsController.MyReview)
	api.PUT("/books/:id/review", reviewsController.Upsert)
	api.DELETE("/reviews/:id", reviewsController.Delete)

	authController := NewAuthController(cfg.Store, cfg.LoginLimiter)
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authController.Register)
	authRoutes.POST("/login", authController.Login)
	authRoutes.POST("/logout", authController.Logout)
	authRoutes.GET("/me", authController.Me)

	adminController := NewAdminController(cfg.Store)
	admin := api.Group("/admin", RequireAdmin(cfg.Store))
	admin.GET("/insights", adminController.Insights)
	admin.POST("/reload", adminController.Reload)
	admin.POST("/flush", adminController.Flush)

	return router
}
