package dto

import "time"

// UserInfo 用户公开信息（不含密码）
type UserInfo struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfileData 个人主页信息
type ProfileData struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic"`
}

// UserIDData 用户名解析结果
type UserIDData struct {
	UserID int64 `json:"user_id"`
}

// ChangeUsernameRequest 修改用户名请求
type ChangeUsernameRequest struct {
	Username string `json:"username" binding:"required,min=1,max=255"`
}

// UserBrief 嵌套在评论等结构里的作者简要信息
type UserBrief struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}
