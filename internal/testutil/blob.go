package testutil

import (
	"context"
	"errors"
	"io"
	"sync"

	infraKafka "vidshare/internal/infra/kafka"
	infraMinio "vidshare/internal/infra/minio"
)

const (
	BlobBaseURL = "http://blob.test"
	BlobBucket  = "media"
)

// ErrBlobUnavailable 模拟对象存储不可用
var ErrBlobUnavailable = errors.New("blob store unavailable")

// BlobStore 内存版对象存储
type BlobStore struct {
	mu         sync.Mutex
	Objects    map[string][]byte
	Deleted    []string
	FailUpload bool
	FailDelete bool
}

func NewBlobStore() *BlobStore {
	return &BlobStore{Objects: map[string][]byte{}}
}

func (s *BlobStore) Upload(ctx context.Context, key string, reader io.Reader, _ int64, _ string) (*infraMinio.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpload {
		return nil, ErrBlobUnavailable
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.Objects[key] = data
	return &infraMinio.Object{Key: key, URL: infraMinio.PublicURL(BlobBaseURL, BlobBucket, key)}, nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete {
		return ErrBlobUnavailable
	}
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *BlobStore) KeyFromURL(rawURL string) (string, bool) {
	return infraMinio.KeyFromURL(BlobBaseURL, BlobBucket, rawURL)
}

// Has 对象是否存在
func (s *BlobStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}

// CleanupPublisher 记录投递的清理任务
type CleanupPublisher struct {
	mu    sync.Mutex
	Tasks []*infraKafka.BlobCleanupTask
}

func (p *CleanupPublisher) PublishBlobCleanup(ctx context.Context, task *infraKafka.BlobCleanupTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Tasks = append(p.Tasks, task)
	return nil
}
