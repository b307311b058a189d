package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidshare/internal/cleanup"
	"vidshare/internal/config"
	infraKafka "vidshare/internal/infra/kafka"
	infraMinio "vidshare/internal/infra/minio"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
)

const (
	groupID       = "vidshare-blob-cleanup"
	deleteRetries = 3
	retryBackoff  = 2 * time.Second
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	store, err := infraMinio.New(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topic(infraKafka.TopicBlobCleanup)
	h := cleanup.NewHandler(store, deleteRetries, retryBackoff)

	logger.Info("Blob cleanup worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartBlobCleanupConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, h.Handle)
}
