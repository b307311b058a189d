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

type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Update 记录观看
// @Summary 记录观看
// @Tags 观看记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.HistoryUpdateRequest true "视频"
// @Success 200 {object} response.Response "记录成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /history/update [post]
func (h *HistoryHandler) Update(c *gin.Context) {
	var req dto.HistoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.historyService.RecordView(userID, req.VideoID); err != nil {
		handleHistoryError(c, err)
		return
	}
	response.OK(c, "观看记录已更新", nil)
}

// List 观看记录列表
// @Summary 观看记录列表
// @Tags 观看记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.HistoryListData} "获取成功"
// @Router /history/get-history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.historyService.List(userID)
	if err != nil {
		handleHistoryError(c, err)
		return
	}
	response.OK(c, "获取成功", data)
}

// Clear 清空观看记录
// @Summary 清空观看记录
// @Tags 观看记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.HistoryClearData} "清空成功"
// @Router /history/clear-history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.historyService.Clear(userID)
	if err != nil {
		handleHistoryError(c, err)
		return
	}
	response.OK(c, "观看记录已清空", data)
}

func handleHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("History operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
