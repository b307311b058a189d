package model

import "time"

// Reaction 点赞/点踩模型，每个 (user, video) 至多一条
type Reaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_video_reaction;index:idx_reactions_user_id;comment:用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_user_video_reaction;index:idx_reactions_video_like,priority:1;comment:视频ID" json:"video_id"`
	IsLike    bool      `gorm:"not null;index:idx_reactions_video_like,priority:2;comment:true 点赞 false 点踩" json:"is_like"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// ReactionState 某用户对某视频的态度
type ReactionState int

const (
	ReactionNone ReactionState = iota
	ReactionLiked
	ReactionDisliked
)

func (s ReactionState) String() string {
	switch s {
	case ReactionLiked:
		return "liked"
	case ReactionDisliked:
		return "disliked"
	default:
		return "none"
	}
}

// StateOf 由极性得到对应状态
func StateOf(isLike bool) ReactionState {
	if isLike {
		return ReactionLiked
	}
	return ReactionDisliked
}
