package model

import "time"

// 视频分类
const (
	CategoryGaming = "gaming"
	CategoryMusic  = "music"
	CategoryNews   = "news"
	CategorySports = "sports"
	CategoryOthers = "others"
)

// 视频可见性
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// IsValidCategory 判断分类是否合法
func IsValidCategory(c string) bool {
	switch c {
	case CategoryGaming, CategoryMusic, CategoryNews, CategorySports, CategoryOthers:
		return true
	}
	return false
}

// IsValidPrivacy 判断可见性是否合法
func IsValidPrivacy(p string) bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

// Video 视频模型
type Video struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	UserID       int64     `gorm:"not null;index:idx_videos_user_id;index:idx_composite_user_uploaded,priority:1;comment:上传者ID" json:"user_id"`
	Title        string    `gorm:"size:200;not null;comment:视频标题" json:"title"`
	Description  string    `gorm:"type:text;comment:视频描述" json:"description"`
	Category     string    `gorm:"size:20;not null;default:'others';index:idx_videos_category;comment:视频分类" json:"category"`
	Privacy      string    `gorm:"size:20;not null;default:'public';index:idx_videos_privacy;comment:可见性" json:"privacy"`
	VideoURL     string    `gorm:"size:500;not null;comment:视频地址" json:"video_url"`
	ThumbnailURL *string   `gorm:"size:500;comment:封面地址" json:"thumbnail_url"`
	Views        int64     `gorm:"not null;default:0;comment:播放量" json:"views"`
	UploadedAt   time.Time `gorm:"not null;index:idx_composite_user_uploaded,priority:2;comment:上传时间" json:"uploaded_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
