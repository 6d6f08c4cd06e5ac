package types

import "time"

// NoticeListRequest 公告列表查询请求
type NoticeListRequest struct {
	Keyword   string `form:"keyword"`
	TitleOnly bool   `form:"titleOnly"`
	FromDate  string `form:"fromDate"` // 格式 2006-01-02
	ToDate    string `form:"toDate"`   // 格式 2006-01-02
	Page      int    `form:"page,default=0"`
	Size      int    `form:"size,default=20"`
	SortField string `form:"sortField"`
	SortDir   string `form:"sortDir"`
}

// AttachmentMeta 附件元信息
type AttachmentMeta struct {
	Filename string `json:"filename" binding:"required"`
}

// CreateNoticeRequest 创建公告请求
type CreateNoticeRequest struct {
	UserID      int64            `json:"user_id" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Content     string           `json:"content" binding:"required"`
	StartAt     time.Time        `json:"start_at" binding:"required"`
	EndAt       time.Time        `json:"end_at" binding:"required"`
	Attachments []AttachmentMeta `json:"attachments"`
}

// UpdateNoticeRequest 更新公告请求，空字段不更新
type UpdateNoticeRequest struct {
	UserID              int64            `json:"user_id" binding:"required"`
	Title               *string          `json:"title"`
	Content             *string          `json:"content"`
	StartAt             *time.Time       `json:"start_at"`
	EndAt               *time.Time       `json:"end_at"`
	RemoveAttachmentIDs []int64          `json:"remove_attachment_ids"`
	NewAttachments      []AttachmentMeta `json:"new_attachments"`
}

// RegisterMemberRequest 用户注册请求
type RegisterMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
