package repository

import (
	"vidshare/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateText 更新评论内容（仅作者本人）
func (r *CommentRepository) UpdateText(commentID, userID int64, text string) error {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("text", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论（仅作者本人）
func (r *CommentRepository) Delete(commentID, userID int64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByVideo 获取视频的全部评论（按发表顺序）
func (r *CommentRepository) ListByVideo(videoID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Preload("User").
		Where("video_id = ?", videoID).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}
