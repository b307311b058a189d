package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "vidshare/api/openapi"
	"vidshare/internal/api/handler"
	"vidshare/internal/api/middleware"
	"vidshare/internal/api/router"
	"vidshare/internal/config"
	"vidshare/internal/infra/database"
	infraKafka "vidshare/internal/infra/kafka"
	infraMinio "vidshare/internal/infra/minio"
	infraRedis "vidshare/internal/infra/redis"
	"vidshare/internal/repository"
	"vidshare/internal/service"
	"vidshare/pkg/logger"
	"vidshare/pkg/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title VidShare API
// @version 1.0
// @description 视频分享平台 API 服务

// @host 127.0.0.1:3001
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load(config.Path())
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	redisClient, err := infraRedis.Open(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close(redisClient)

	// 初始化MinIO
	store, err := infraMinio.New(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireDuration(), cfg.App.Name)
	blacklist := infraRedis.NewTokenBlacklist(redisClient)

	authService := service.NewAuthService(userRepo, jwtManager, blacklist, &cfg.Media)
	userService := service.NewUserService(userRepo, store, &cfg.Media)
	videoService := service.NewVideoService(videoRepo, userRepo, store, producer, &cfg.Media)
	reactionService := service.NewReactionService(reactionRepo, userRepo, videoRepo)
	commentService := service.NewCommentService(commentRepo, userRepo, videoRepo, &cfg.Media)
	followService := service.NewFollowService(followRepo, userRepo)
	historyService := service.NewHistoryService(historyRepo, videoRepo)

	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		User:     handler.NewUserHandler(userService),
		Video:    handler.NewVideoHandler(videoService),
		Reaction: handler.NewReactionHandler(reactionService),
		Comment:  handler.NewCommentHandler(commentService),
		Follow:   handler.NewFollowHandler(followService),
		History:  handler.NewHistoryHandler(historyService),
	}

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler(cfg))
	r.GET("/", rootHandler(cfg))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, handlers, middleware.AuthRequired(jwtManager, blacklist))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
		zap.Strings("kafka", cfg.Kafka.Brokers),
	)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Debug("Health check requested", zap.String("ip", c.ClientIP()))

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "Service is healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mode":      cfg.App.Mode,
		})
	}
}

// rootHandler 根路径处理器
func rootHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
			"project": cfg.App.Name,
			"version": cfg.App.Version,
			"mode":    cfg.App.Mode,
			"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
		})
	}
}
