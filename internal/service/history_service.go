package service

import (
	"errors"
	"time"

	"vidshare/internal/api/dto"
	"vidshare/internal/repository"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HistoryService struct {
	historyRepo *repository.HistoryRepository
	videoRepo   *repository.VideoRepository
	now         func() time.Time
}

func NewHistoryService(historyRepo *repository.HistoryRepository, videoRepo *repository.VideoRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		videoRepo:   videoRepo,
		now:         time.Now,
	}
}

// RecordView 记录观看，已有记录则刷新观看时间
func (s *HistoryService) RecordView(userID, videoID int64) error {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return s.historyRepo.Upsert(userID, videoID, s.now())
}

// List 观看记录，最近观看优先
func (s *HistoryService) List(userID int64) (*dto.HistoryListData, error) {
	entries, err := s.historyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.HistoryEntry, 0, len(entries))
	for i := range entries {
		list = append(list, dto.HistoryEntry{
			ID:        entries[i].ID,
			VideoID:   entries[i].VideoID,
			WatchedAt: entries[i].WatchedAt,
			Video:     *toVideoInfo(&entries[i].Video),
		})
	}
	return &dto.HistoryListData{Entries: list}, nil
}

// Clear 清空用户的全部观看记录
func (s *HistoryService) Clear(userID int64) (*dto.HistoryClearData, error) {
	deleted, err := s.historyRepo.Clear(userID)
	if err != nil {
		return nil, err
	}
	logger.Info("History cleared", zap.Int64("user_id", userID), zap.Int64("deleted", deleted))
	return &dto.HistoryClearData{Deleted: deleted}, nil
}
