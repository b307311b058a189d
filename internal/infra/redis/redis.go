package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidshare/internal/config"
	"vidshare/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open 初始化Redis客户端
func Open(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return client, nil
}

// Close 关闭Redis连接
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return client.Close()
}

const revokedTokenPrefix = "vidshare:revoked_token:"

// TokenBlacklist 已注销 Token 的 jti 黑名单，条目在 Token 自然过期时一并过期
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke 拉黑 jti，ttl <= 0 时无需记录
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked 检查 jti 是否已被拉黑
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.client.Get(ctx, revokedTokenPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
