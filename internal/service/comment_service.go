package service

import (
	"errors"
	"strings"

	"vidshare/internal/api/dto"
	"vidshare/internal/config"
	"vidshare/internal/model"
	"vidshare/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrCommentNoPermission = errors.New("没有权限操作该评论")
	ErrEmptyComment        = errors.New("评论内容不能为空")
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
	videoRepo   *repository.VideoRepository
	media       *config.MediaConfig
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
	videoRepo *repository.VideoRepository,
	media *config.MediaConfig,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		media:       media,
	}
}

// Add 发表评论，返回该视频的全部评论
func (s *CommentService) Add(videoID int64, req *dto.CommentCreateRequest) (*dto.CommentListData, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.ensureVideo(videoID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:  user.ID,
		VideoID: videoID,
		Text:    text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return s.list(videoID)
}

// Edit 修改评论内容（仅作者本人）
func (s *CommentService) Edit(commentID, currentUserID int64, req *dto.CommentUpdateRequest) (*dto.CommentInfo, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.ownComment(commentID, currentUserID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateText(commentID, currentUserID, text); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment, err := s.commentRepo.GetByIDWithUser(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	info := s.toCommentInfo(comment)
	return &info, nil
}

// Delete 删除评论（仅作者本人）
func (s *CommentService) Delete(commentID, currentUserID int64) error {
	if _, err := s.ownComment(commentID, currentUserID); err != nil {
		return err
	}

	deleted, err := s.commentRepo.Delete(commentID, currentUserID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}

// List 获取视频的全部评论，按发表顺序
func (s *CommentService) List(videoID int64) (*dto.CommentListData, error) {
	if err := s.ensureVideo(videoID); err != nil {
		return nil, err
	}
	return s.list(videoID)
}

// ownComment 评论不存在返回 ErrCommentNotFound，非作者返回 ErrCommentNoPermission
func (s *CommentService) ownComment(commentID, currentUserID int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != currentUserID {
		return nil, ErrCommentNoPermission
	}
	return comment, nil
}

func (s *CommentService) ensureVideo(videoID int64) error {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return nil
}

func (s *CommentService) list(videoID int64) (*dto.CommentListData, error) {
	comments, err := s.commentRepo.ListByVideo(videoID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		list = append(list, s.toCommentInfo(&comments[i]))
	}
	return &dto.CommentListData{Comments: list}, nil
}

func (s *CommentService) toCommentInfo(c *model.Comment) dto.CommentInfo {
	return dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		User: dto.UserBrief{
			ID:         c.User.ID,
			Username:   c.User.Username,
			ProfilePic: profilePicOrDefault(&c.User, s.media.DefaultProfilePic),
		},
	}
}
