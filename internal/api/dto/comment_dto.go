package dto

import "time"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Text     string `json:"text" binding:"max=1000"`
}

// CommentUpdateRequest 更新评论请求
type CommentUpdateRequest struct {
	Text string `json:"text" binding:"max=1000"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      UserBrief `json:"user"`
}

// CommentListData 评论列表数据
type CommentListData struct {
	Comments []CommentInfo `json:"comments"`
}
