package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/MichelleArumemi/EmployeeMS/internal/config"
	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/leave"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka"
	"github.com/MichelleArumemi/EmployeeMS/internal/middleware"
	"github.com/MichelleArumemi/EmployeeMS/internal/notification"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"
	rbacinfra "github.com/MichelleArumemi/EmployeeMS/internal/rbac/infra"
	"github.com/MichelleArumemi/EmployeeMS/internal/realtime"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (func(), error) {
	logger := zap.L().Named("app.registry")

	// --- RBAC Core ---
	enforcer, err := rbacinfra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(rbac.NewRepository(), enforcer)
	if err != nil {
		return nil, err
	}

	// --- Realtime ---
	hub := realtime.NewHub()
	publisher, stopRelay := newPublisher(cfg, rdb, hub, logger)

	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	directoryService := directory.NewService(directoryRepo, rdb)
	notificationService := notification.NewService(db, notificationRepo, directoryService, rbacService, publisher)
	leaveService := leave.NewServiceWithOutbox(
		db,
		leaveRepo,
		outboxRepo,
		directoryService,
		rbacService,
		notificationService,
		publisher,
	)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, rdb)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService)
	realtimeHandler := realtime.NewHandler(hub, cfg.AllowedOrigins)

	// --- Routes Registration ---
	router.Use(
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
		realtime.RegisterRoutes(api, realtimeHandler)
	}

	return func() {
		stopRelay()
		hub.Close()
	}, nil
}

// newPublisher returns the hub itself for a single instance. With the Redis
// backend events go through Redis and a relay feeds this instance's hub.
func newPublisher(cfg config.Config, rdb *redis.Client, hub *realtime.Hub, logger *zap.Logger) (realtime.Publisher, func()) {
	if cfg.RealtimeBackend != config.RealtimeRedis {
		return hub, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	relay := realtime.NewRelay(rdb, hub, logger)
	go func() {
		defer close(done)
		relay.Serve(ctx)
	}()

	return realtime.NewRedisPublisher(rdb), func() {
		cancel()
		<-done
	}
}

func health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
}
