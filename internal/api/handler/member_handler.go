package handler

import (
	"strconv"

	"noticeboard/internal/constants"
	"noticeboard/internal/service"
	"noticeboard/internal/types"
	"noticeboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MemberHandler 用户处理器
type MemberHandler struct {
	memberService service.MemberService
	logger        *logger.Logger
}

// NewMemberHandler 创建用户处理器实例
func NewMemberHandler(memberService service.MemberService, logger *logger.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param member body types.RegisterMemberRequest true "用户信息"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/members [post]
func (h *MemberHandler) Register(c *gin.Context) {
	var req types.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, constants.ErrInvalidParams+"："+err.Error())
		return
	}

	ctx := c.Request.Context()
	member, err := h.memberService.Register(ctx, req)
	if err != nil {
		respondError(c, h.logger, "用户注册失败", err)
		return
	}

	respondOK(c, member)
}

// GetMember 获取用户信息
// @Summary 获取用户信息
// @Description 根据ID获取用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "无效的用户ID")
		return
	}

	ctx := c.Request.Context()
	member, err := h.memberService.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, "获取用户失败", err)
		return
	}

	respondOK(c, member)
}
