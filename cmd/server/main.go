package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/parkpass/internal/api/handlers"
	"github.com/langchou/parkpass/internal/config"
	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/repository"
	"github.com/langchou/parkpass/internal/service"
	"github.com/langchou/parkpass/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting ParkPass", zap.String("port", cfg.ServerPort), zap.String("backend", cfg.SnapshotBackend))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 初始化快照存储
	snap, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to init snapshot store", zap.Error(err))
	}
	defer snap.Close()

	// 加载台账
	store, err := ledger.New(ctx, logger, snap)
	if err != nil {
		logger.Fatal("Failed to load ledger", zap.Error(err))
	}

	// 写入演示数据（仅当快照为空时）
	if cfg.DemoSeed {
		if err := store.SeedDemo(ctx); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Info("Demo data seeded")
	}

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	wsHub.SetInitDataProvider(func() interface{} {
		return store.ListActiveSpots()
	})
	go wsHub.Run()

	// 创建服务
	bookingService := service.NewBookingService(logger, store, wsHub)
	exportService := service.NewExportService(store)

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(logger, store, bookingService, exportService, wsHub)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newSnapshotStore 按配置选择快照存储后端
func newSnapshotStore(ctx context.Context, cfg *config.Config) (repository.SnapshotStore, error) {
	switch cfg.SnapshotBackend {
	case config.BackendPostgres:
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.SnapshotKey)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case config.BackendRedis:
		return repository.NewRedisStore(ctx, cfg.RedisURL, cfg.SnapshotKey)
	case config.BackendFile:
		return repository.NewFileStore(cfg.SnapshotFile), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.SnapshotBackend)
	}
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
