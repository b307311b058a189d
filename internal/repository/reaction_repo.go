package repository

import (
	"errors"

	"vidshare/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReactionContention 并发写入下多次重试仍未收敛
var ErrReactionContention = errors.New("reaction update contention")

const reactionMaxAttempts = 3

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Toggle 对 (user, video) 施加一次点赞/点踩：
// 无记录则创建；极性相同则删除；极性相反则翻转。
// 每一步都是单条带条件的写语句，依赖 uq_user_video_reaction 唯一约束保证至多一条记录。
func (r *ReactionRepository) Toggle(userID, videoID int64, isLike bool) (model.ReactionState, error) {
	for attempt := 0; attempt < reactionMaxAttempts; attempt++ {
		reaction := &model.Reaction{UserID: userID, VideoID: videoID, IsLike: isLike}
		created := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).Create(reaction)
		if created.Error != nil {
			return model.ReactionNone, created.Error
		}
		if created.RowsAffected == 1 {
			return model.StateOf(isLike), nil
		}

		removed := r.db.Where("user_id = ? AND video_id = ? AND is_like = ?", userID, videoID, isLike).
			Delete(&model.Reaction{})
		if removed.Error != nil {
			return model.ReactionNone, removed.Error
		}
		if removed.RowsAffected == 1 {
			return model.ReactionNone, nil
		}

		flipped := r.db.Model(&model.Reaction{}).
			Where("user_id = ? AND video_id = ? AND is_like = ?", userID, videoID, !isLike).
			Update("is_like", isLike)
		if flipped.Error != nil {
			return model.ReactionNone, flipped.Error
		}
		if flipped.RowsAffected == 1 {
			return model.StateOf(isLike), nil
		}
		// 记录在两步之间被并发修改，重新开始
	}
	return model.ReactionNone, ErrReactionContention
}

// Get 查询用户对视频的记录
func (r *ReactionRepository) Get(userID, videoID int64) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Counts 统计视频的点赞数和点踩数
func (r *ReactionRepository) Counts(videoID int64) (likes, dislikes int64, err error) {
	if err = r.db.Model(&model.Reaction{}).
		Where("video_id = ? AND is_like = ?", videoID, true).
		Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&model.Reaction{}).
		Where("video_id = ? AND is_like = ?", videoID, false).
		Count(&dislikes).Error; err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}
