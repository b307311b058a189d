package dto

import "time"

// VideoUploadRequest 视频上传请求（multipart/form-data，文件字段 video / thumbnail）
type VideoUploadRequest struct {
	Username    string `form:"username" binding:"required"`
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Privacy     string `form:"privacy"`
}

// VideoUpdateRequest 视频信息更新请求，整体替换可变字段
type VideoUpdateRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Privacy      string `json:"privacy"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Privacy      string    `json:"privacy"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Views        int64     `json:"views"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ViewData 播放量
type ViewData struct {
	Views int64 `json:"views"`
}

// ThumbnailData 封面上传结果
type ThumbnailData struct {
	ThumbnailURL string `json:"thumbnail_url"`
}
