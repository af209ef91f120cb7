package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"cashonrails-backend/internal/config"
	infraCache "cashonrails-backend/internal/infrastructure/cache"
	"cashonrails-backend/internal/infrastructure/database"
	"cashonrails-backend/internal/infrastructure/queue"
	"cashonrails-backend/pkg/logger"

	orderHandler "cashonrails-backend/internal/domains/order/handler"
	orderRepo "cashonrails-backend/internal/domains/order/repository"
	orderService "cashonrails-backend/internal/domains/order/service"
	"cashonrails-backend/internal/domains/payment/gateway"
	"cashonrails-backend/internal/domains/payment/gateway/cashonrails"
	"cashonrails-backend/internal/domains/payment/gateway/mock"
	paymentHandler "cashonrails-backend/internal/domains/payment/handler"
	paymentService "cashonrails-backend/internal/domains/payment/service"
	subRepo "cashonrails-backend/internal/domains/subscription/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
// Every field is created once in NewContainer and shared for the process lifetime.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient // nil when redis is unreachable at startup
	Locker      infraCache.Locker
	AsynqClient *asynq.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	OrderRepo        orderRepo.OrderRepository
	SubscriptionRepo subRepo.SubscriptionRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	OrderService          orderService.OrderService
	Gateway               gateway.CashOnRailsGateway
	EventPublisher        paymentService.PaymentEventPublisher
	CheckoutService       paymentService.CheckoutService
	ReconciliationService paymentService.ReconciliationService

	// ========================================
	// HANDLER LAYER
	// ========================================
	OrderHandler   *orderHandler.OrderHandler
	PaymentHandler *paymentHandler.PaymentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	logger.Info("initializing container", nil)

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"currency":    cfg.CashOnRails.Currency,
		"mock":        cfg.CashOnRails.UseMock,
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE REDIS + QUEUE
	// ========================================
	c.initRedis(ctx)

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initRedis connects redis for the confirmation lock and the task queue.
// Redis is not critical for the API: without it confirmation falls back to
// an in-process lock and events are dropped with a warning.
func (c *Container) initRedis(ctx context.Context) {
	redisCfg := c.Config.Redis

	rc := infraCache.NewRedisClient(redisCfg)
	if err := rc.Connect(ctx); err != nil {
		logger.Warn("redis connection failed, using in-process lock", map[string]interface{}{
			"error": err.Error(),
			"addr":  redisCfg.Host,
		})
		_ = rc.Close()
		c.Locker = infraCache.NewLocalLocker()
		return
	}

	c.Redis = rc
	c.Locker = rc.Locker()
	c.AsynqClient = asynq.NewClient(queue.RedisClientOpt(redisCfg))
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.SubscriptionRepo = subRepo.NewPostgresSubscriptionRepository(pool)
}

func (c *Container) initServices() error {
	corCfg := c.Config.CashOnRails

	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.SubscriptionRepo)

	// ----------------------------------------
	// GATEWAY
	// ----------------------------------------
	if corCfg.UseMock {
		logger.Warn("using mock CashOnRails gateway", nil)
		c.Gateway = mock.NewMockCashOnRailsGateway()
	} else {
		c.Gateway = cashonrails.NewClient(
			cashonrails.NewConfig(corCfg.SecretKey, corCfg.BaseURL, corCfg.HTTPTimeout),
		)
	}

	// ----------------------------------------
	// EVENT PUBLISHER
	// ----------------------------------------
	if c.AsynqClient != nil {
		c.EventPublisher = queue.NewPaymentEventPublisher(c.AsynqClient)
	} else {
		c.EventPublisher = discardPublisher{}
	}

	// ----------------------------------------
	// PAYMENT SERVICES
	// ----------------------------------------
	c.CheckoutService = paymentService.NewCheckoutService(
		c.OrderRepo,
		c.Gateway,
		paymentService.CheckoutConfig{
			Currency:  corCfg.Currency,
			ReturnURL: corCfg.ReturnURL,
			LogoURL:   corCfg.LogoURL,
		},
	)

	c.ReconciliationService = paymentService.NewReconciliationService(
		c.OrderRepo,
		c.SubscriptionRepo,
		c.Gateway,
		c.EventPublisher,
		c.Locker,
		corCfg.LockTTL,
	)

	return nil
}

func (c *Container) initHandlers() {
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(
		c.CheckoutService,
		c.ReconciliationService,
		c.Config.CashOnRails.WebhookMarker,
	)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases every connection the container opened
func (c *Container) Cleanup() {
	logger.Info("cleaning up container resources", nil)

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
