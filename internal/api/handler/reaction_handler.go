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

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// Like 点赞，再次点赞即取消
// @Summary 点赞
// @Tags 互动
// @Accept json
// @Produce json
// @Param id path int true "视频ID"
// @Param request body dto.ReactRequest true "操作用户"
// @Success 200 {object} response.Response{data=dto.ReactionCounts} "最新计数"
// @Failure 404 {object} response.ErrorResponse "用户或视频不存在"
// @Router /video/{id}/like [post]
func (h *ReactionHandler) Like(c *gin.Context) {
	h.react(c, true)
}

// Dislike 点踩，再次点踩即取消
// @Summary 点踩
// @Tags 互动
// @Accept json
// @Produce json
// @Param id path int true "视频ID"
// @Param request body dto.ReactRequest true "操作用户"
// @Success 200 {object} response.Response{data=dto.ReactionCounts} "最新计数"
// @Failure 404 {object} response.ErrorResponse "用户或视频不存在"
// @Router /video/{id}/dislike [post]
func (h *ReactionHandler) Dislike(c *gin.Context) {
	h.react(c, false)
}

func (h *ReactionHandler) react(c *gin.Context, isLike bool) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	counts, err := h.reactionService.React(videoID, req.Username, isLike)
	if err != nil {
		handleReactionError(c, err)
		return
	}
	response.OK(c, "操作成功", counts)
}

// GetCounts 点赞/点踩计数
// @Summary 点赞/点踩计数
// @Tags 互动
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.ReactionCounts} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /video/{id}/like-dislike-count [get]
func (h *ReactionHandler) GetCounts(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	counts, err := h.reactionService.GetCounts(videoID)
	if err != nil {
		handleReactionError(c, err)
		return
	}
	response.OK(c, "获取成功", counts)
}

// GetStatus 用户对视频的态度，用户不存在时均为 false
// @Summary 当前用户态度
// @Tags 互动
// @Produce json
// @Param id path int true "视频ID"
// @Param username query string false "用户名"
// @Success 200 {object} response.Response{data=dto.ReactionStatus} "获取成功"
// @Router /video/{id}/like-status [get]
func (h *ReactionHandler) GetStatus(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	status, err := h.reactionService.GetStatus(videoID, c.Query("username"))
	if err != nil {
		handleReactionError(c, err)
		return
	}
	response.OK(c, "获取成功", status)
}

func handleReactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrReactionBusy):
		response.Conflict(c, err.Error())
	default:
		logger.Error("Reaction operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
