package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	infraKafka "vidshare/internal/infra/kafka"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
)

// Deleter 删除媒体对象
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Handler 消费孤立对象清理任务，逐个 key 重试删除
type Handler struct {
	store    Deleter
	attempts int
	backoff  time.Duration
}

func NewHandler(store Deleter, attempts int, backoff time.Duration) *Handler {
	if attempts < 1 {
		attempts = 1
	}
	return &Handler{
		store:    store,
		attempts: attempts,
		backoff:  backoff,
	}
}

// Handle 处理一条清理任务，返回仍未删除成功的 key 汇总错误
func (h *Handler) Handle(ctx context.Context, task *infraKafka.BlobCleanupTask) error {
	var errs []error
	for _, key := range task.Keys {
		if err := h.deleteWithRetry(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
			continue
		}
		logger.Info("Orphan blob removed",
			zap.String("key", key),
			zap.String("reason", task.Reason),
		)
	}
	return errors.Join(errs...)
}

func (h *Handler) deleteWithRetry(ctx context.Context, key string) error {
	var err error
	for attempt := 1; attempt <= h.attempts; attempt++ {
		if err = h.store.Delete(ctx, key); err == nil {
			return nil
		}
		logger.Warn("Orphan blob delete failed",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == h.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.backoff * time.Duration(attempt)):
		}
	}
	return err
}
