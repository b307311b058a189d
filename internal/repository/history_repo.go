package repository

import (
	"time"

	"vidshare/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 记录观看：已有记录则刷新 watched_at
func (r *HistoryRepository) Upsert(userID, videoID int64, watchedAt time.Time) error {
	entry := &model.History{UserID: userID, VideoID: videoID, WatchedAt: watchedAt}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(entry).Error
}

// ListByUser 获取用户观看记录（最近观看优先，含视频信息）
func (r *HistoryRepository) ListByUser(userID int64) ([]model.History, error) {
	var entries []model.History
	err := r.db.Preload("Video").
		Where("user_id = ?", userID).
		Order("watched_at DESC").Order("id DESC").
		Find(&entries).Error
	return entries, err
}

// Clear 删除用户全部观看记录
func (r *HistoryRepository) Clear(userID int64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&model.History{})
	return result.RowsAffected, result.Error
}
