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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetIDByUsername 用户名解析为用户ID
// @Summary 用户名解析为用户ID
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.UserIDData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /user/getIdByUsername/{username} [get]
func (h *UserHandler) GetIDByUsername(c *gin.Context) {
	data, err := h.userService.ResolveID(c.Param("username"))
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// GetProfile 获取用户主页信息
// @Summary 获取用户主页信息
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.ProfileData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /user/profile/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := parseInt64Param(c, "id")
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	data, err := h.userService.GetProfileByID(userID)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// GetProfileByUsername 按用户名获取主页信息
// @Summary 按用户名获取主页信息
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.ProfileData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /user/profile/username/{username} [get]
func (h *UserHandler) GetProfileByUsername(c *gin.Context) {
	data, err := h.userService.GetProfileByUsername(c.Param("username"))
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// UpdateProfilePic 上传头像
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "头像图片"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Failure 400 {object} response.ErrorResponse "文件无效"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /user/profile-pic [put]
func (h *UserHandler) UpdateProfilePic(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	file, closeFile, err := formMediaFile(c, "file")
	if err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	defer closeFile()

	info, err := h.userService.UpdateProfilePicture(c.Request.Context(), userID, file)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, "头像更新成功", info)
}

// ChangeUsername 修改用户名
// @Summary 修改用户名
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangeUsernameRequest true "新用户名"
// @Success 200 {object} response.Response{data=dto.UserInfo} "修改成功"
// @Failure 400 {object} response.ErrorResponse "用户名未变化或已存在"
// @Router /user/username [put]
func (h *UserHandler) ChangeUsername(c *gin.Context) {
	var req dto.ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.userService.ChangeUsername(userID, req.Username)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, "用户名修改成功", info)
}

func handleUserError(c *gin.Context, err error) {
	if handleMediaError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUsernameExists):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrSameUsername):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
