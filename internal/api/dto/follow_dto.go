package dto

import "time"

// FollowRequest 关注/取关请求
type FollowRequest struct {
	FollowerID int64 `json:"follower_id" binding:"required"`
}

// FollowInfo 关注关系
type FollowInfo struct {
	FollowerID  int64     `json:"follower_id"`
	FollowingID int64     `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowerCountData 粉丝数
type FollowerCountData struct {
	Count int64 `json:"count"`
}

// FollowStatusData 关注状态
type FollowStatusData struct {
	IsFollowing bool `json:"is_following"`
}
