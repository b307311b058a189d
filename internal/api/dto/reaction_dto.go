package dto

// ReactRequest 点赞/点踩请求
type ReactRequest struct {
	Username string `json:"username" binding:"required"`
}

// ReactionCounts 点赞/点踩计数
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ReactionStatus 当前用户对视频的态度
type ReactionStatus struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}
