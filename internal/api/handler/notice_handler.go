package handler

import (
	"strconv"

	"noticeboard/internal/constants"
	"noticeboard/internal/service"
	"noticeboard/internal/types"
	"noticeboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// NoticeHandler 公告处理器
type NoticeHandler struct {
	noticeService service.NoticeService
	logger        *logger.Logger
}

// NewNoticeHandler 创建公告处理器实例
func NewNoticeHandler(noticeService service.NoticeService, logger *logger.Logger) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
		logger:        logger,
	}
}

// CreateNotice 创建公告
// @Summary 创建公告
// @Description 创建公告，附件元信息随公告一起提交
// @Tags 公告
// @Accept json
// @Produce json
// @Param notice body types.CreateNoticeRequest true "公告信息"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/notices [post]
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req types.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, constants.ErrInvalidParams+"："+err.Error())
		return
	}

	ctx := c.Request.Context()
	detail, err := h.noticeService.CreateNotice(ctx, req)
	if err != nil {
		respondError(c, h.logger, "创建公告失败", err)
		return
	}

	respondOK(c, detail)
}

// GetNoticeList 获取公告列表
// @Summary 获取公告列表
// @Description 获取公告列表，支持关键字/日期范围检索、动态排序和分页
// @Tags 公告
// @Accept json
// @Produce json
// @Param keyword query string false "检索关键字"
// @Param titleOnly query bool false "只检索标题"
// @Param fromDate query string false "展示开始日期下界，格式2006-01-02"
// @Param toDate query string false "展示结束日期上界，格式2006-01-02"
// @Param page query int false "页码，从0开始"
// @Param size query int false "每页条数，默认20"
// @Param sortField query string false "排序字段，默认createdAt"
// @Param sortDir query string false "排序方向asc/desc，默认desc"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/notices [get]
func (h *NoticeHandler) GetNoticeList(c *gin.Context) {
	var req types.NoticeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, constants.ErrInvalidParams+"："+err.Error())
		return
	}

	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size < 1 || req.Size > 100 {
		req.Size = 20
	}

	ctx := c.Request.Context()
	list, err := h.noticeService.GetNoticeList(ctx, req)
	if err != nil {
		respondError(c, h.logger, "获取公告列表失败", err)
		return
	}

	respondOK(c, list)
}

// GetNotice 获取公告详情
// @Summary 获取公告详情
// @Description 根据ID获取公告详情并记录一次浏览
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path int true "公告ID"
// @Param userId query int true "访问者用户ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/notices/{id} [get]
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	noticeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的公告ID")
		return
	}
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的用户ID")
		return
	}

	ctx := c.Request.Context()
	detail, err := h.noticeService.GetNotice(ctx, userID, noticeID)
	if err != nil {
		respondError(c, h.logger, "获取公告详情失败", err)
		return
	}

	respondOK(c, detail)
}

// UpdateNotice 更新公告
// @Summary 更新公告
// @Description 作者更新公告内容和附件
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path int true "公告ID"
// @Param notice body types.UpdateNoticeRequest true "更新内容"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/notices/{id} [put]
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	noticeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的公告ID")
		return
	}

	var req types.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, constants.ErrInvalidParams+"："+err.Error())
		return
	}

	ctx := c.Request.Context()
	detail, err := h.noticeService.UpdateNotice(ctx, noticeID, req)
	if err != nil {
		respondError(c, h.logger, "更新公告失败", err)
		return
	}

	respondOK(c, detail)
}

// DeleteNotice 删除公告
// @Summary 删除公告
// @Description 作者删除公告，附件一并删除
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path int true "公告ID"
// @Param userId query int true "请求者用户ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/notices/{id} [delete]
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	noticeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的公告ID")
		return
	}
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的用户ID")
		return
	}

	ctx := c.Request.Context()
	if err := h.noticeService.DeleteNotice(ctx, userID, noticeID); err != nil {
		respondError(c, h.logger, "删除公告失败", err)
		return
	}

	respondOK(c, nil)
}
