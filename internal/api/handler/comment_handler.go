package handler

import (
	"errors"

	"vidshare/internal/api/dto"
	"vidshare/internal/api/middleware"
	"vidshare/internal/api/response"
	"vidshare/internal/service"
	"vidshare/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List 评论列表
// @Summary 评论列表
// @Tags 评论
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.CommentListData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /comment/{id}/get-comment [get]
func (h *CommentHandler) List(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	data, err := h.commentService.List(videoID)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, "获取评论列表成功", data)
}

// Add 发表评论，返回该视频的全部评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path int true "视频ID"
// @Param request body dto.CommentCreateRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentListData} "发表成功"
// @Failure 400 {object} response.ErrorResponse "评论内容不能为空"
// @Failure 404 {object} response.ErrorResponse "用户或视频不存在"
// @Router /comment/{id}/add-comment [post]
func (h *CommentHandler) Add(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.commentService.Add(videoID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.Created(c, "发表评论成功", data)
}

// Edit 修改评论
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param request body dto.CommentUpdateRequest true "新内容"
// @Success 200 {object} response.Response{data=dto.CommentInfo} "修改成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comment/{id}/edit-comment [put]
func (h *CommentHandler) Edit(c *gin.Context) {
	commentID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	var req dto.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.commentService.Edit(commentID, userID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, "更新评论成功", info)
}

// Delete 删除评论
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comment/{id}/delete-comment [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.commentService.Delete(commentID, userID); err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, "删除评论成功", nil)
}

func handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmptyComment):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Comment operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
