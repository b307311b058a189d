package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"vidshare/internal/config"
	"vidshare/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Object 上传成功后的对象：Key 可用于删除，URL 可直接访问
type Object struct {
	Key string
	URL string
}

// Store 基于 MinIO 的媒体对象存储
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New 初始化 MinIO 客户端，确保 Bucket 存在且公开可读
func New(cfg *config.MinIOConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	// 媒体 bucket 需要公开读，供前端直接播放视频、展示图片
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.Bucket)
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
		return nil, fmt.Errorf("failed to set public policy for %s: %w", cfg.Bucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL(),
	}, nil
}

// Upload 上传对象，同名 key 会被覆盖
func (s *Store) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*Object, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to minio: %w", err)
	}
	return &Object{Key: key, URL: PublicURL(s.baseURL, s.bucket, key)}, nil
}

// Delete 删除对象，对象不存在不视为错误
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s from minio: %w", key, err)
	}
	return nil
}

// KeyFromURL 从公开 URL 反推对象 key
func (s *Store) KeyFromURL(rawURL string) (string, bool) {
	return KeyFromURL(s.baseURL, s.bucket, rawURL)
}

// PublicURL 生成公开访问 URL（需要 Bucket 设置为 public-read）
func PublicURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), bucket, key)
}

// KeyFromURL 解析 {baseURL}/{bucket}/{key}[?query]，不属于本 bucket 的 URL 返回 false
func KeyFromURL(baseURL, bucket, rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	u.RawQuery = ""
	u.Fragment = ""

	prefix := strings.TrimRight(baseURL, "/") + "/" + bucket + "/"
	trimmed := u.String()
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(trimmed, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// VideoKey 新视频对象 key
func VideoKey(ext string) string {
	return path.Join("videos", uuid.NewString()+ext)
}

const thumbnailPrefix = "video_thumbnails/"

// ThumbnailKey 新封面对象 key，每次上传都不同
func ThumbnailKey(ext string) string {
	return thumbnailPrefix + uuid.NewString() + ext
}

// IsThumbnailKey key 是否位于封面目录下
func IsThumbnailKey(key string) bool {
	rest := strings.TrimPrefix(key, thumbnailPrefix)
	return rest != key && rest != "" && !strings.Contains(rest, "/")
}

// ProfilePicKey 用户头像 key，同一用户固定，重新上传即覆盖
func ProfilePicKey(userID int64) string {
	return fmt.Sprintf("profile_pics/%d", userID)
}
