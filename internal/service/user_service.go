package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidshare/internal/api/dto"
	"vidshare/internal/config"
	infraMinio "vidshare/internal/infra/minio"
	"vidshare/internal/model"
	"vidshare/internal/repository"
	"vidshare/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSameUsername = errors.New("新用户名与当前用户名相同")

type UserService struct {
	userRepo *repository.UserRepository
	store    BlobStore
	media    *config.MediaConfig
	now      func() time.Time
}

func NewUserService(userRepo *repository.UserRepository, store BlobStore, media *config.MediaConfig) *UserService {
	return &UserService{
		userRepo: userRepo,
		store:    store,
		media:    media,
		now:      time.Now,
	}
}

// ResolveID 用户名 -> 用户 ID
func (s *UserService) ResolveID(username string) (*dto.UserIDData, error) {
	user, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	return &dto.UserIDData{UserID: user.ID}, nil
}

// GetProfileByID 根据 ID 获取主页信息
func (s *UserService) GetProfileByID(userID int64) (*dto.ProfileData, error) {
	user, err := s.getByID(userID)
	if err != nil {
		return nil, err
	}
	return s.toProfile(user), nil
}

// GetProfileByUsername 根据用户名获取主页信息
func (s *UserService) GetProfileByUsername(username string) (*dto.ProfileData, error) {
	user, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.toProfile(user), nil
}

// GetUserByID 获取完整的用户公开信息
func (s *UserService) GetUserByID(userID int64) (*dto.UserInfo, error) {
	user, err := s.getByID(userID)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user, s.media.DefaultProfilePic), nil
}

// ChangeUsername 修改用户名。视频按用户 ID 关联，无需级联更新
func (s *UserService) ChangeUsername(userID int64, newUsername string) (*dto.UserInfo, error) {
	user, err := s.getByID(userID)
	if err != nil {
		return nil, err
	}

	if user.Username == newUsername {
		return nil, ErrSameUsername
	}

	exists, err := s.userRepo.ExistsByUsername(newUsername)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	updated, err := s.userRepo.Update(userID, map[string]interface{}{"username": newUsername})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Info("Username changed",
		zap.Int64("user_id", userID),
		zap.String("from", user.Username),
		zap.String("to", newUsername),
	)

	return toUserInfo(updated, s.media.DefaultProfilePic), nil
}

// UpdateProfilePicture 上传头像，同一用户固定 key，新图覆盖旧图
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID int64, file *MediaFile) (*dto.UserInfo, error) {
	contentType, err := validateMedia(file, imageExts, s.media.MaxImageBytes())
	if err != nil {
		return nil, err
	}

	if _, err := s.getByID(userID); err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, infraMinio.ProfilePicKey(userID), file.Reader, file.Size, contentType)
	if err != nil {
		logger.Error("Upload profile picture failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBlobUpload, err)
	}

	// key 不变，追加版本参数让客户端缓存失效
	picURL := fmt.Sprintf("%s?v=%d", obj.URL, s.now().Unix())

	updated, err := s.userRepo.Update(userID, map[string]interface{}{"profile_pic": picURL})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toUserInfo(updated, s.media.DefaultProfilePic), nil
}

func (s *UserService) getByID(userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) getByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) toProfile(user *model.User) *dto.ProfileData {
	return &dto.ProfileData{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		ProfilePic: profilePicOrDefault(user, s.media.DefaultProfilePic),
	}
}
