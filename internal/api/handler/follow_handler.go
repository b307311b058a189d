package handler

import (
	"errors"

	"vidshare/internal/api/dto"
	"vidshare/internal/api/response"
	"vidshare/internal/service"
	"vidshare/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关注
// @Accept json
// @Produce json
// @Param user_id path int true "被关注用户ID"
// @Param request body dto.FollowRequest true "关注者"
// @Success 201 {object} response.Response{data=dto.FollowInfo} "关注成功"
// @Failure 400 {object} response.ErrorResponse "不能关注自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Failure 409 {object} response.ErrorResponse "已关注"
// @Router /follower/add/{user_id} [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	targetID, err := parseInt64Param(c, "user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.followService.Follow(req.FollowerID, targetID)
	if err != nil {
		handleFollowError(c, err)
		return
	}
	response.Created(c, "关注成功", info)
}

// Unfollow 取消关注，未关注时同样返回成功
// @Summary 取消关注
// @Tags 关注
// @Accept json
// @Produce json
// @Param user_id path int true "被关注用户ID"
// @Param request body dto.FollowRequest true "关注者"
// @Success 200 {object} response.Response "取消成功"
// @Router /follower/delete/{user_id} [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, err := parseInt64Param(c, "user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.followService.Unfollow(req.FollowerID, targetID); err != nil {
		handleFollowError(c, err)
		return
	}
	response.OK(c, "已取消关注", nil)
}

// FollowerCount 粉丝数
// @Summary 粉丝数
// @Tags 关注
// @Produce json
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowerCountData} "获取成功"
// @Router /follower/{user_id}/count [get]
func (h *FollowHandler) FollowerCount(c *gin.Context) {
	userID, err := parseInt64Param(c, "user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	data, err := h.followService.FollowerCount(userID)
	if err != nil {
		handleFollowError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// IsFollowing 查询 current_user_id 是否关注了 user_id
// @Summary 关注状态
// @Tags 关注
// @Produce json
// @Param user_id path int true "被关注用户ID"
// @Param current_user_id path int true "关注者ID"
// @Success 200 {object} response.Response{data=dto.FollowStatusData} "获取成功"
// @Router /follower/{user_id}/isFollowing/{current_user_id} [get]
func (h *FollowHandler) IsFollowing(c *gin.Context) {
	targetID, err := parseInt64Param(c, "user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	currentID, err := parseInt64Param(c, "current_user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	data, err := h.followService.IsFollowing(currentID, targetID)
	if err != nil {
		handleFollowError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

func handleFollowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAlreadyFollowed):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Follow operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
