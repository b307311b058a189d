package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidshare/internal/config"
	"vidshare/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicBlobCleanup 孤立媒体对象清理任务的逻辑 topic 名
const TopicBlobCleanup = "blob_cleanup"

// BlobCleanupTask 清理任务消息体：删除失败、需要异步重试的对象 key
type BlobCleanupTask struct {
	Keys      []string `json:"keys"`
	Reason    string   `json:"reason"`
	VideoID   int64    `json:"video_id,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// Producer Kafka 生产者
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 初始化 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Producer{writer: writer, topic: cfg.Topic(TopicBlobCleanup)}
}

// PublishBlobCleanup 发送清理任务到 Kafka
func (p *Producer) PublishBlobCleanup(ctx context.Context, task *BlobCleanupTask) error {
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().Unix()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup task: %w", err)
	}

	key := task.Reason
	if task.VideoID != 0 {
		key = fmt.Sprintf("video-%d", task.VideoID)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send cleanup task: %w", err)
	}

	logger.Info("Blob cleanup task sent",
		zap.String("topic", p.topic),
		zap.Strings("keys", task.Keys),
		zap.String("reason", task.Reason),
	)

	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
