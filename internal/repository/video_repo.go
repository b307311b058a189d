package repository

import (
	"vidshare/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Update 更新视频字段
func (r *VideoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除视频及其点赞、评论、观看记录
func (r *VideoRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.History{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Video{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListPublic 获取全部公开视频
func (r *VideoRepository) ListPublic() ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("privacy = ?", model.PrivacyPublic).Find(&videos).Error
	return videos, err
}

// ListByUser 获取用户的全部视频（最新优先）
func (r *VideoRepository) ListByUser(userID int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("user_id = ?", userID).
		Order("uploaded_at DESC").Order("id DESC").
		Find(&videos).Error
	return videos, err
}

// ListByCategoryRandom 按分类获取视频，数据库侧随机排序
func (r *VideoRepository) ListByCategoryRandom(category string) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("category = ?", category).
		Order("RANDOM()").
		Find(&videos).Error
	return videos, err
}

// IncrementViews 播放量 +1，返回最新播放量
func (r *VideoRepository) IncrementViews(id int64) (int64, error) {
	var views int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Video{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Video{}).Where("id = ?", id).Pluck("views", &views).Error
	})
	return views, err
}

// GetByThumbnailKey 查找封面地址指向该对象 key 的视频（忽略地址上的查询参数）
func (r *VideoRepository) GetByThumbnailKey(key string) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("thumbnail_url LIKE ? OR thumbnail_url LIKE ?", "%/"+key, "%/"+key+"?%").
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}
