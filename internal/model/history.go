package model

import "time"

// History 观看记录，每个 (user, video) 至多一条
type History struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_video_history;index:idx_history_user_watched,priority:1;comment:用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_user_video_history;comment:视频ID" json:"video_id"`
	WatchedAt time.Time `gorm:"not null;index:idx_history_user_watched,priority:2;comment:最近观看时间" json:"watched_at"`

	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
}

func (History) TableName() string {
	return "histories"
}
