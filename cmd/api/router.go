package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderHandler "cashonrails-backend/internal/domains/order/handler"
	paymentHandler "cashonrails-backend/internal/domains/payment/handler"
	"cashonrails-backend/internal/shared/middleware"
	"cashonrails-backend/pkg/container"
)

// healthChecker is satisfied by the postgres and redis wrappers
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func SetupRouter(c *container.Container) *gin.Engine {
	var redis healthChecker
	if c.Redis != nil {
		redis = c.Redis
	}
	return newRouter(c.OrderHandler, c.PaymentHandler, c.DB, redis, c.Config.App.Version)
}

func newRouter(
	orders *orderHandler.OrderHandler,
	payments *paymentHandler.PaymentHandler,
	db, redis healthChecker,
	version string,
) *gin.Engine {
	router := gin.New()

	// Global middlewares. The webhook interceptor is global because CashOnRails
	// may post to any storefront URL that carries the marker.
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		payments.WebhookInterceptor(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(db, redis, version))

		setupOrderRoutes(v1, orders, payments)
		setupPaymentRoutes(v1, payments)
	}

	return router
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, o *orderHandler.OrderHandler, p *paymentHandler.PaymentHandler) {
	orders := v1.Group("/orders")
	{
		orders.POST("/:order_id/checkout", p.Checkout)
		orders.GET("/:order_id/payment", o.GetPaymentStatus)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, h *paymentHandler.PaymentHandler) {
	payments := v1.Group("/payments/cashonrails")
	{
		payments.GET("/return", h.Return)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(db, redis healthChecker, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		}

		// Check database
		dbStatus := "ok"
		if db == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis, only the lock and the queue depend on it
		redisStatus := "ok"
		if redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
