package service

import (
	"context"
	"errors"
	"time"

	"vidshare/internal/api/dto"
	"vidshare/internal/config"
	"vidshare/internal/model"
	"vidshare/internal/repository"
	"vidshare/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUsernameExists    = errors.New("用户名已存在")
	ErrEmailExists       = errors.New("邮箱已被注册")
	ErrInvalidCredential = errors.New("邮箱或密码错误")
)

// TokenRevoker 注销 Token
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	jwt      *utils.JWTManager
	revoker  TokenRevoker
	media    *config.MediaConfig
	now      func() time.Time
}

func NewAuthService(userRepo *repository.UserRepository, jwt *utils.JWTManager, revoker TokenRevoker, media *config.MediaConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		revoker:  revoker,
		media:    media,
		now:      time.Now,
	}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	return toUserInfo(user, s.media.DefaultProfilePic), nil
}

// Login 用户登录，返回 token 数据
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(s.jwt.TTL().Seconds()),
		Username:  user.Username,
	}, nil
}

// Logout 注销当前 Token，直到其自然过期前都不可再用
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if s.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(s.now()))
}

func toUserInfo(user *model.User, defaultPic string) *dto.UserInfo {
	return &dto.UserInfo{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		ProfilePic: profilePicOrDefault(user, defaultPic),
		CreatedAt:  user.CreatedAt,
	}
}

func profilePicOrDefault(user *model.User, defaultPic string) string {
	if user.ProfilePic != nil && *user.ProfilePic != "" {
		return *user.ProfilePic
	}
	return defaultPic
}
