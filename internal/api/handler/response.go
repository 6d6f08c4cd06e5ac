package handler

import (
	"net/http"

	"noticeboard/internal/constants"
	"noticeboard/internal/errs"
	"noticeboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondOK 成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "success",
		"data": data,
	})
}

// respondError 错误响应，业务错误带自身的码和消息，其余按内部错误处理
func respondError(c *gin.Context, log *logger.Logger, msg string, err error) {
	if e, ok := errs.As(err); ok {
		c.JSON(http.StatusOK, gin.H{
			"code": e.Status,
			"msg":  e.Message,
		})
		return
	}

	log.Error(msg, "error", err)
	c.JSON(http.StatusOK, gin.H{
		"code": 500,
		"msg":  constants.ErrInternalServer,
	})
}

// respondBadRequest 参数错误响应
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{
		"code": 400,
		"msg":  msg,
	})
}
