package service

import (
	"errors"

	"vidshare/internal/api/dto"
	"vidshare/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCannotFollowSelf = errors.New("不能关注自己")
	ErrAlreadyFollowed  = errors.New("您已经关注过该用户了")
)

type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
}

func NewFollowService(followRepo *repository.FollowRepository, userRepo *repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow 关注用户
func (s *FollowService) Follow(followerID, targetID int64) (*dto.FollowInfo, error) {
	if followerID == targetID {
		return nil, ErrCannotFollowSelf
	}

	// 双方都必须存在
	for _, id := range []int64{followerID, targetID} {
		if _, err := s.userRepo.GetByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	exists, err := s.followRepo.Exists(followerID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFollowed
	}

	follow, err := s.followRepo.Create(followerID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowed
		}
		return nil, err
	}

	return &dto.FollowInfo{
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
		CreatedAt:   follow.CreatedAt,
	}, nil
}

// Unfollow 取消关注，未关注时同样视为成功
func (s *FollowService) Unfollow(followerID, targetID int64) error {
	_, err := s.followRepo.Delete(followerID, targetID)
	return err
}

// FollowerCount 粉丝数
func (s *FollowService) FollowerCount(userID int64) (*dto.FollowerCountData, error) {
	count, err := s.followRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowerCountData{Count: count}, nil
}

// IsFollowing 查询关注状态
func (s *FollowService) IsFollowing(followerID, targetID int64) (*dto.FollowStatusData, error) {
	exists, err := s.followRepo.Exists(followerID, targetID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowStatusData{IsFollowing: exists}, nil
}
