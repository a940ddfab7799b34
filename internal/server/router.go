// Package server assembles the gin engine from the clinic modules.
package server

import (
	"context"
	"net/http"
	"time"

	"dentalclinic/internal/config"
	"dentalclinic/internal/middleware"
	"dentalclinic/internal/modules/admin"
	"dentalclinic/internal/modules/auth"
	"dentalclinic/internal/modules/booking"
	"dentalclinic/internal/modules/notification"
	"dentalclinic/internal/modules/order"
	"dentalclinic/internal/modules/product"
	"dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/pkg/redis"
	"dentalclinic/internal/pkg/response"
	"dentalclinic/internal/pkg/sms"
	"dentalclinic/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators. Hub, Redis and SMS are optional.
type Deps struct {
	DB       *gorm.DB
	JWT      *jwt.Service
	Logger   *zap.Logger
	Location *time.Location

	Hub   *notification.Hub
	Redis *redis.Client
	SMS   sms.Sender

	SMSAlertPhone      string
	CORSAllowedOrigins []string
	RateLimit          config.RateLimitConfig
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}

	userRepo := repository.NewUserRepository(d.DB)
	notificationRepo := repository.NewNotificationRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	productRepo := repository.NewProductRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)

	var publisher notification.Publisher
	if d.Hub != nil {
		publisher = d.Hub
	}
	notificationService := notification.NewService(notificationRepo, publisher, d.Logger.Named("notification"))
	notificationHandler := notification.NewHandler(notificationService)
	wsHandler := notification.NewWSHandler(d.Hub, d.JWT, d.CORSAllowedOrigins, d.Logger.Named("ws"))

	authService := auth.NewService(userRepo, d.JWT, d.Logger.Named("auth"))
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, notificationService, d.Location, d.Logger.Named("booking"))
	if d.SMS != nil && d.SMSAlertPhone != "" {
		bookingService.EnableSMSAlerts(d.SMS, d.SMSAlertPhone)
	}
	bookingHandler := booking.NewHandler(bookingService)

	productService := product.NewService(productRepo, d.Logger.Named("product"))
	productHandler := product.NewHandler(productService)

	orderService := order.NewService(orderRepo, productRepo, notificationService, d.Logger.Named("order"))
	orderHandler := order.NewHandler(orderService)

	adminService := admin.NewService(bookingRepo, orderRepo, productRepo, notificationRepo, d.Logger.Named("admin"))
	exportService := admin.NewExportService(bookingRepo, orderRepo, productRepo, d.Location, d.Logger.Named("export"))
	adminHandler := admin.NewHandler(adminService, exportService)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.ErrorLogger(d.Logger),
		middleware.CORS(d.CORSAllowedOrigins),
	)

	r.GET("/health", healthCheck(d.DB))

	api := r.Group("/api")

	// public
	limited := formLimiter(d)
	authHandler.RegisterPublicRoutes(api, limited)
	bookingHandler.RegisterPublicRoutes(api, limited)
	orderHandler.RegisterPublicRoutes(api, limited)
	productHandler.RegisterPublicRoutes(api)
	if d.Hub != nil {
		wsHandler.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(d.JWT), middleware.AdminOnly())
	{
		authHandler.RegisterProtectedRoutes(protected)
		notificationHandler.RegisterRoutes(protected)
		bookingHandler.RegisterAdminRoutes(protected)
		productHandler.RegisterAdminRoutes(protected)
		orderHandler.RegisterAdminRoutes(protected)

		adminGroup := protected.Group("/admin")
		{
			adminHandler.RegisterRoutes(adminGroup)
			bookingHandler.RegisterAnalyticsRoutes(adminGroup)
			productHandler.RegisterCatalogRoutes(adminGroup)
			notificationHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	return r
}

// formLimiter guards the anonymous POST endpoints. Redis shares the window
// across replicas; without it each process keeps its own buckets.
func formLimiter(d Deps) gin.HandlerFunc {
	if d.Redis != nil {
		return middleware.RedisRateLimit(d.Redis, d.RateLimit.Limit, d.RateLimit.Window, d.Logger)
	}
	rps, burst := d.RateLimit.RPS, d.RateLimit.Burst
	if rps <= 0 || burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.NewRateLimiter(rate.Limit(rps), burst).Middleware()
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
