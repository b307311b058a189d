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

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Upload 上传视频
// @Summary 上传视频
// @Description multipart 上传视频文件（可附带封面），上传者由 username 指定
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "视频文件"
// @Param thumbnail formData file false "封面图片"
// @Param username formData string true "上传者用户名"
// @Param title formData string true "视频标题"
// @Param description formData string false "视频描述"
// @Param category formData string false "分类 gaming/music/news/sports/others"
// @Param privacy formData string false "可见性 public/private"
// @Success 201 {object} response.Response{data=dto.VideoInfo} "上传成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Failure 502 {object} response.ErrorResponse "媒体存储异常"
// @Router /video/upload-video [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	var req dto.VideoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	video, closeVideo, err := formMediaFile(c, "video")
	if err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	defer closeVideo()

	thumbnail, closeThumbnail, err := formMediaFile(c, "thumbnail")
	if err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	defer closeThumbnail()

	info, err := h.videoService.Upload(c.Request.Context(), &req, video, thumbnail)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.Created(c, "上传成功", info)
}

// GetFeed 公开视频，每次请求顺序不同
// @Summary 公开视频（随机顺序）
// @Tags 视频
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.VideoInfo} "获取成功"
// @Router /video/data [get]
func (h *VideoHandler) GetFeed(c *gin.Context) {
	videos, err := h.videoService.ListPublicShuffled()
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "获取成功", videos)
}

// ListByUser 用户的视频
// @Summary 用户的视频（最新优先）
// @Tags 视频
// @Produce json
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]dto.VideoInfo} "获取成功"
// @Router /video/user/{user_id} [get]
func (h *VideoHandler) ListByUser(c *gin.Context) {
	userID, err := parseInt64Param(c, "user_id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	videos, err := h.videoService.ListByOwner(userID)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "获取成功", videos)
}

// ListByCategory 按分类获取视频
// @Summary 按分类获取视频
// @Tags 视频
// @Produce json
// @Param type path string true "分类 gaming/music/news/sports/others"
// @Success 200 {object} response.Response{data=[]dto.VideoInfo} "获取成功"
// @Failure 400 {object} response.ErrorResponse "无效的视频分类"
// @Router /video/category/{type} [get]
func (h *VideoHandler) ListByCategory(c *gin.Context) {
	videos, err := h.videoService.ListByCategory(c.Param("type"))
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "获取成功", videos)
}

// GetDetails 获取视频详情
// @Summary 获取视频详情
// @Tags 视频
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /video/{id}/details [get]
func (h *VideoHandler) GetDetails(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	info, err := h.videoService.GetDetails(videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "获取成功", info)
}

// IncrementView 播放量 +1
// @Summary 增加播放量
// @Tags 视频
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.ViewData} "成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /video/{id}/view [post]
func (h *VideoHandler) IncrementView(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	data, err := h.videoService.IncrementView(videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "播放量已更新", data)
}

// UploadThumbnail 上传新封面并删除旧封面。旧封面属于他人视频时返回 403
// @Summary 上传封面
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "封面图片"
// @Param old_thumbnail_url formData string false "旧封面地址"
// @Success 200 {object} response.Response{data=dto.ThumbnailData} "上传成功"
// @Failure 400 {object} response.ErrorResponse "文件无效"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 502 {object} response.ErrorResponse "媒体存储异常"
// @Router /video/upload-thumbnail [post]
func (h *VideoHandler) UploadThumbnail(c *gin.Context) {
	file, closeFile, err := formMediaFile(c, "file")
	if err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	defer closeFile()

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.videoService.ReplaceThumbnail(c.Request.Context(), userID, c.PostForm("old_thumbnail_url"), file)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "封面上传成功", data)
}

// UpdateMetadata 更新视频信息
// @Summary 更新视频信息
// @Description 整体替换标题、描述、分类、可见性与封面地址（仅作者本人）
// @Tags 视频
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Param request body dto.VideoUpdateRequest true "视频信息"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /video/update-thumbnail/{id} [put]
func (h *VideoHandler) UpdateMetadata(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.UpdateMetadata(videoID, userID, &req)
	if err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "更新成功", info)
}

// Delete 删除视频
// @Summary 删除视频
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /video/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		handleVideoError(c, err)
		return
	}
	response.OK(c, "视频已删除", nil)
}

func handleVideoError(c *gin.Context, err error) {
	if handleMediaError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrVideoNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPrivacy):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
