package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/api/handler"
	"herois-da-vida/backend/internal/api/router"
	"herois-da-vida/backend/internal/repository"
	"herois-da-vida/backend/internal/service"
	"herois-da-vida/backend/pkg/database"
	"herois-da-vida/backend/pkg/jwt"
	applogger "herois-da-vida/backend/pkg/logger"
	"herois-da-vida/backend/pkg/password"
	"herois-da-vida/backend/pkg/ratelimit"
	"herois-da-vida/backend/pkg/redis"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 0. 加载 .env（不存在时忽略）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "加载 .env 失败: %v\n", err)
		os.Exit(1)
	}

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("log_level", cfg.Log.Level),
		zap.String("version", version),
	)

	// 3. 初始化存储
	repo, db := initStorage(cfg, logger)

	// 4. 限流器：Redis 可用时跨实例共享计数，否则使用进程内限流
	var rdb *redis.Client
	limiter := ratelimit.NewMemory()
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，限流退化为进程内计数", zap.Error(err))
			rdb = nil
		} else {
			limiter = ratelimit.NewRedis(rdb)
		}
	}

	// 5. 初始化 JWT 管理器与密码哈希器
	jwtMgr := jwt.NewManager(&cfg.Auth)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, hasher, logger)
	if _, err := svc.Seeder.Seed(context.Background()); err != nil {
		logger.Fatal("初始化演示数据失败", zap.Error(err))
	}
	h := handler.NewHandler(svc, version, cfg.Server.Debug)

	// 7. 初始化路由
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.Setup(cfg, h, svc.Auth, limiter, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	// 关闭 Redis 连接
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// initStorage 按 storage.driver 构建仓储；postgres 模式下同时执行迁移
// 内存模式返回的 db 为 nil
func initStorage(cfg *config.Config, logger *zap.Logger) (*repository.Repository, *gorm.DB) {
	if cfg.Storage.Driver != config.StoragePostgres {
		logger.Info("使用内存存储，重启后数据将丢失")
		return repository.NewMemoryRepository(), nil
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if _, err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	return repository.NewRepository(db), db
}
