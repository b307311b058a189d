package kafka

import (
	"context"
	"encoding/json"
	"time"

	"vidshare/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CleanupHandler 处理清理任务的回调函数
type CleanupHandler func(ctx context.Context, task *BlobCleanupTask) error

// StartBlobCleanupConsumer 启动清理任务消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止
func StartBlobCleanupConsumer(ctx context.Context, brokers []string, topic, groupID string, handler CleanupHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka blob cleanup consumer stopped")
	}()

	logger.Info("Kafka blob cleanup consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		task, err := DecodeBlobCleanupTask(msg.Value)
		if err != nil {
			logger.Error("Failed to unmarshal cleanup task",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		logger.Info("Received blob cleanup task",
			zap.Strings("keys", task.Keys),
			zap.String("reason", task.Reason),
		)

		if err := handler(ctx, task); err != nil {
			logger.Error("Failed to handle cleanup task",
				zap.Strings("keys", task.Keys),
				zap.Error(err),
			)
		}
	}
}

// DecodeBlobCleanupTask 解析消息体
func DecodeBlobCleanupTask(value []byte) (*BlobCleanupTask, error) {
	var task BlobCleanupTask
	if err := json.Unmarshal(value, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
