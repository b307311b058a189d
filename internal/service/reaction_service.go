package service

import (
	"errors"

	"vidshare/internal/api/dto"
	"vidshare/internal/model"
	"vidshare/internal/repository"

	"gorm.io/gorm"
)

var ErrReactionBusy = errors.New("操作过于频繁，请稍后重试")

type ReactionService struct {
	reactionRepo *repository.ReactionRepository
	userRepo     *repository.UserRepository
	videoRepo    *repository.VideoRepository
}

func NewReactionService(
	reactionRepo *repository.ReactionRepository,
	userRepo *repository.UserRepository,
	videoRepo *repository.VideoRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		videoRepo:    videoRepo,
	}
}

// React 点赞或点踩：无记录则创建，同极性再次操作则取消，反极性则翻转。返回最新计数
func (s *ReactionService) React(videoID int64, username string, isLike bool) (*dto.ReactionCounts, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if _, err := s.reactionRepo.Toggle(user.ID, videoID, isLike); err != nil {
		if errors.Is(err, repository.ErrReactionContention) {
			return nil, ErrReactionBusy
		}
		return nil, err
	}

	return s.counts(videoID)
}

// GetCounts 获取点赞/点踩计数
func (s *ReactionService) GetCounts(videoID int64) (*dto.ReactionCounts, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return s.counts(videoID)
}

// GetStatus 查询用户对视频的态度，用户为空或不存在时均为 false
func (s *ReactionService) GetStatus(videoID int64, username string) (*dto.ReactionStatus, error) {
	status := &dto.ReactionStatus{}
	if username == "" {
		return status, nil
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status, nil
		}
		return nil, err
	}

	reaction, err := s.reactionRepo.Get(user.ID, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status, nil
		}
		return nil, err
	}

	switch model.StateOf(reaction.IsLike) {
	case model.ReactionLiked:
		status.Liked = true
	case model.ReactionDisliked:
		status.Disliked = true
	}
	return status, nil
}

func (s *ReactionService) counts(videoID int64) (*dto.ReactionCounts, error) {
	likes, dislikes, err := s.reactionRepo.Counts(videoID)
	if err != nil {
		return nil, err
	}
	return &dto.ReactionCounts{Likes: likes, Dislikes: dislikes}, nil
}
