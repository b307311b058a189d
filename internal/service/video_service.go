package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"vidshare/internal/api/dto"
	"vidshare/internal/config"
	infraKafka "vidshare/internal/infra/kafka"
	infraMinio "vidshare/internal/infra/minio"
	"vidshare/internal/model"
	"vidshare/internal/repository"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrVideoNoPermission = errors.New("没有权限操作该视频")
	ErrInvalidCategory   = errors.New("无效的视频分类")
	ErrInvalidPrivacy    = errors.New("无效的可见性设置")
)

// 清理任务的触发原因
const (
	reasonVideoDeleted      = "video_deleted"
	reasonThumbnailReplaced = "thumbnail_replaced"
	reasonUploadAborted     = "upload_aborted"
)

type VideoService struct {
	videoRepo *repository.VideoRepository
	userRepo  *repository.UserRepository
	store     BlobStore
	cleanup   CleanupPublisher
	media     *config.MediaConfig
	now       func() time.Time
}

func NewVideoService(
	videoRepo *repository.VideoRepository,
	userRepo *repository.UserRepository,
	store BlobStore,
	cleanup CleanupPublisher,
	media *config.MediaConfig,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		store:     store,
		cleanup:   cleanup,
		media:     media,
		now:       time.Now,
	}
}

// Upload 上传视频（封面可选）并创建视频记录
func (s *VideoService) Upload(ctx context.Context, req *dto.VideoUploadRequest, video *MediaFile, thumbnail *MediaFile) (*dto.VideoInfo, error) {
	category, privacy, err := normalizeCategoryPrivacy(req.Category, req.Privacy)
	if err != nil {
		return nil, err
	}

	videoType, err := validateMedia(video, videoExts, s.media.MaxVideoBytes())
	if err != nil {
		return nil, err
	}
	var thumbType string
	if thumbnail != nil {
		if thumbType, err = validateMedia(thumbnail, imageExts, s.media.MaxImageBytes()); err != nil {
			return nil, err
		}
	}

	owner, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	videoObj, err := s.store.Upload(ctx, infraMinio.VideoKey(video.Ext()), video.Reader, video.Size, videoType)
	if err != nil {
		logger.Error("Upload video blob failed", zap.Int64("user_id", owner.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBlobUpload, err)
	}
	uploaded := []string{videoObj.Key}

	var thumbnailURL *string
	if thumbnail != nil {
		thumbObj, err := s.store.Upload(ctx, infraMinio.ThumbnailKey(thumbnail.Ext()), thumbnail.Reader, thumbnail.Size, thumbType)
		if err != nil {
			logger.Error("Upload thumbnail blob failed", zap.Int64("user_id", owner.ID), zap.Error(err))
			s.discard(ctx, uploaded, reasonUploadAborted, 0)
			return nil, fmt.Errorf("%w: %v", ErrBlobUpload, err)
		}
		uploaded = append(uploaded, thumbObj.Key)
		thumbnailURL = &thumbObj.URL
	}

	record := &model.Video{
		UserID:       owner.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     category,
		Privacy:      privacy,
		VideoURL:     videoObj.URL,
		ThumbnailURL: thumbnailURL,
		UploadedAt:   s.now(),
	}

	if err := s.videoRepo.Create(record); err != nil {
		s.discard(ctx, uploaded, reasonUploadAborted, 0)
		return nil, err
	}

	logger.Info("Video uploaded",
		zap.Int64("video_id", record.ID),
		zap.Int64("user_id", owner.ID),
		zap.String("key", videoObj.Key),
	)

	return toVideoInfo(record), nil
}

// ListPublicShuffled 全部公开视频，每次调用重新打乱
func (s *VideoService) ListPublicShuffled() ([]dto.VideoInfo, error) {
	videos, err := s.videoRepo.ListPublic()
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
	return toVideoInfoList(videos), nil
}

// ListByOwner 用户的全部视频，最新优先
func (s *VideoService) ListByOwner(userID int64) ([]dto.VideoInfo, error) {
	videos, err := s.videoRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return toVideoInfoList(videos), nil
}

// ListByCategory 按分类获取视频，顺序随机
func (s *VideoService) ListByCategory(category string) ([]dto.VideoInfo, error) {
	if !model.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	videos, err := s.videoRepo.ListByCategoryRandom(category)
	if err != nil {
		return nil, err
	}
	return toVideoInfoList(videos), nil
}

// GetDetails 获取视频详情
func (s *VideoService) GetDetails(videoID int64) (*dto.VideoInfo, error) {
	video, err := s.getVideo(videoID)
	if err != nil {
		return nil, err
	}
	return toVideoInfo(video), nil
}

// IncrementView 播放量 +1，不做身份和频率校验
func (s *VideoService) IncrementView(videoID int64) (*dto.ViewData, error) {
	views, err := s.videoRepo.IncrementViews(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &dto.ViewData{Views: views}, nil
}

// UpdateMetadata 整体替换视频可变字段（仅作者本人）
func (s *VideoService) UpdateMetadata(videoID, currentUserID int64, req *dto.VideoUpdateRequest) (*dto.VideoInfo, error) {
	video, err := s.getVideo(videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != currentUserID {
		return nil, ErrVideoNoPermission
	}

	category, privacy, err := normalizeCategoryPrivacy(req.Category, req.Privacy)
	if err != nil {
		return nil, err
	}

	var thumbnailURL interface{}
	if req.ThumbnailURL != "" {
		thumbnailURL = req.ThumbnailURL
	}

	updated, err := s.videoRepo.Update(videoID, map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"category":      category,
		"privacy":       privacy,
		"thumbnail_url": thumbnailURL,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return toVideoInfo(updated), nil
}

// ReplaceThumbnail 尽力删除旧封面并上传新封面，返回新 URL；不修改视频记录。
// 旧地址只在指向封面目录时才会删除；若已被某个视频使用，调用者必须是该视频作者。
func (s *VideoService) ReplaceThumbnail(ctx context.Context, currentUserID int64, oldThumbnailURL string, file *MediaFile) (*dto.ThumbnailData, error) {
	contentType, err := validateMedia(file, imageExts, s.media.MaxImageBytes())
	if err != nil {
		return nil, err
	}

	key, ok := s.store.KeyFromURL(oldThumbnailURL)
	if ok && infraMinio.IsThumbnailKey(key) {
		owner, err := s.videoRepo.GetByThumbnailKey(key)
		switch {
		case err == nil && owner.UserID != currentUserID:
			return nil, ErrVideoNoPermission
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		s.discard(ctx, []string{key}, reasonThumbnailReplaced, 0)
	} else if oldThumbnailURL != "" {
		logger.Debug("Old thumbnail not resolvable, skip delete", zap.String("url", oldThumbnailURL))
	}

	obj, err := s.store.Upload(ctx, infraMinio.ThumbnailKey(file.Ext()), file.Reader, file.Size, contentType)
	if err != nil {
		logger.Error("Upload thumbnail blob failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBlobUpload, err)
	}

	return &dto.ThumbnailData{ThumbnailURL: obj.URL}, nil
}

// Delete 删除视频（仅作者本人）。
// 先删除视频记录及其关联数据，再尽力删除媒体对象；对象删除失败只记录日志并投递清理任务。
func (s *VideoService) Delete(ctx context.Context, videoID, currentUserID int64) error {
	video, err := s.getVideo(videoID)
	if err != nil {
		return err
	}
	if video.UserID != currentUserID {
		return ErrVideoNoPermission
	}

	if err := s.videoRepo.Delete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	var keys []string
	if key, ok := s.store.KeyFromURL(video.VideoURL); ok {
		keys = append(keys, key)
	}
	if video.ThumbnailURL != nil {
		if key, ok := s.store.KeyFromURL(*video.ThumbnailURL); ok {
			keys = append(keys, key)
		}
	}
	s.discard(ctx, keys, reasonVideoDeleted, videoID)

	logger.Info("Video deleted",
		zap.Int64("video_id", videoID),
		zap.Int64("user_id", currentUserID),
	)
	return nil
}

func (s *VideoService) discard(ctx context.Context, keys []string, reason string, videoID int64) {
	if len(keys) == 0 {
		return
	}
	deleteBlobs(ctx, s.store, s.cleanup, &infraKafka.BlobCleanupTask{
		Keys:      keys,
		Reason:    reason,
		VideoID:   videoID,
		CreatedAt: s.now().Unix(),
	})
}

func (s *VideoService) getVideo(videoID int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

// normalizeCategoryPrivacy 空值取默认，非法值报错
func normalizeCategoryPrivacy(category, privacy string) (string, string, error) {
	if category == "" {
		category = model.CategoryOthers
	}
	if !model.IsValidCategory(category) {
		return "", "", ErrInvalidCategory
	}
	if privacy == "" {
		privacy = model.PrivacyPublic
	}
	if !model.IsValidPrivacy(privacy) {
		return "", "", ErrInvalidPrivacy
	}
	return category, privacy, nil
}

func toVideoInfo(v *model.Video) *dto.VideoInfo {
	return &dto.VideoInfo{
		ID:           v.ID,
		UserID:       v.UserID,
		Title:        v.Title,
		Description:  v.Description,
		Category:     v.Category,
		Privacy:      v.Privacy,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Views:        v.Views,
		UploadedAt:   v.UploadedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toVideoInfoList(videos []model.Video) []dto.VideoInfo {
	list := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		list = append(list, *toVideoInfo(&videos[i]))
	}
	return list
}
