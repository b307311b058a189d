package model

import "time"

// Follow 关注关系模型：FollowerID 关注了 FollowingID
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:关系ID" json:"id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:uq_follower_following;index:idx_follows_follower_id;comment:粉丝用户ID" json:"follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:uq_follower_following;index:idx_follows_following_id;comment:被关注用户ID" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
