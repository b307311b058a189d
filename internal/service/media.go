package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	infraKafka "vidshare/internal/infra/kafka"
	infraMinio "vidshare/internal/infra/minio"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrMissingFile     = errors.New("缺少上传文件")
	ErrUnsupportedFile = errors.New("不支持的文件类型")
	ErrFileTooLarge    = errors.New("文件过大")
	ErrBlobUpload      = errors.New("媒体存储服务异常")
)

// BlobStore 媒体对象存储
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*infraMinio.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, bool)
}

// CleanupPublisher 投递孤立对象清理任务，可为 nil
type CleanupPublisher interface {
	PublishBlobCleanup(ctx context.Context, task *infraKafka.BlobCleanupTask) error
}

// MediaFile 待上传的文件
type MediaFile struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

// Ext 小写扩展名，含 "."
func (f *MediaFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Filename))
}

var (
	videoExts = map[string]string{
		".mp4":  "video/mp4",
		".avi":  "video/x-msvideo",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
		".flv":  "video/x-flv",
		".webm": "video/webm",
	}
	imageExts = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
	}
)

// validateMedia 校验扩展名与大小，返回上传时使用的 Content-Type
func validateMedia(f *MediaFile, allowed map[string]string, maxBytes int64) (string, error) {
	if f == nil || f.Reader == nil {
		return "", ErrMissingFile
	}
	contentType, ok := allowed[f.Ext()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, f.Filename)
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size)
	}
	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		contentType = f.ContentType
	}
	return contentType, nil
}

// blobCleanupTimeout 请求结束后删除对象与投递清理任务的时限
const blobCleanupTimeout = 30 * time.Second

// deleteBlobs 尽力删除对象，失败的 key 记 Warn 日志并投递清理任务，不向调用方返回错误。
// 不随请求取消，客户端断开后仍会执行。
func deleteBlobs(ctx context.Context, store BlobStore, cleanup CleanupPublisher, task *infraKafka.BlobCleanupTask) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blobCleanupTimeout)
	defer cancel()

	var failed []string
	for _, key := range task.Keys {
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("Blob delete failed",
				zap.String("key", key),
				zap.String("reason", task.Reason),
				zap.Error(err),
			)
			failed = append(failed, key)
		}
	}
	if len(failed) == 0 || cleanup == nil {
		return
	}

	retry := *task
	retry.Keys = failed
	if err := cleanup.PublishBlobCleanup(ctx, &retry); err != nil {
		logger.Warn("Publish blob cleanup task failed",
			zap.Strings("keys", failed),
			zap.Error(err),
		)
	}
}
