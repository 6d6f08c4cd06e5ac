package errs

import (
	"errors"
	"fmt"
	"net/http"

	"noticeboard/internal/constants"
)

// Error 业务错误，携带错误码和对应的HTTP状态
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// 全部业务错误定义
var (
	// 通用错误
	ErrInvalidInput = &Error{Code: "C0001", Status: http.StatusBadRequest, Message: constants.ErrInvalidParams}
	ErrNotFound     = &Error{Code: "C0004", Status: http.StatusNotFound, Message: "资源不存在"}
	ErrInternal     = &Error{Code: "C0005", Status: http.StatusInternalServerError, Message: constants.ErrInternalServer}
	ErrAccessDenied = &Error{Code: "C0006", Status: http.StatusForbidden, Message: constants.ErrAccessDenied}

	// 公告相关错误
	ErrNoticeNotFound     = &Error{Code: "N0001", Status: http.StatusNotFound, Message: constants.ErrNoticeNotFound}
	ErrAttachmentNotFound = &Error{Code: "N0002", Status: http.StatusNotFound, Message: constants.ErrAttachmentNotFound}
	ErrInvalidDateRange   = &Error{Code: "N0003", Status: http.StatusBadRequest, Message: constants.ErrInvalidDateRange}

	// 用户相关错误
	ErrMemberNotFound = &Error{Code: "M0001", Status: http.StatusNotFound, Message: constants.ErrMemberNotFound}
	ErrEmailExists    = &Error{Code: "M0002", Status: http.StatusBadRequest, Message: constants.ErrEmailExists}
)

// InvalidInputf 构造带具体说明的参数错误
func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrInvalidInput.Code,
		Status:  ErrInvalidInput.Status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internalf 将底层错误包装为内部错误
func Internalf(format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrInternal.Code,
		Status:  ErrInternal.Status,
		Message: fmt.Sprintf(format, args...),
	}
}

// As 判断err链上是否为业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
