package model

import "time"

// Notice 公告模型
type Notice struct {
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"user_id" json:"-"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	ViewCount int64     `db:"view_count" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// 关联数据，需要单独查询填充
	Author      *AuthorInfo  `db:"-" json:"author,omitempty"`
	Attachments []Attachment `db:"-" json:"attachments"`
}

// Attachment 附件模型，通过notice_id指向所属公告
type Attachment struct {
	ID         int64     `db:"id" json:"id"`
	NoticeID   int64     `db:"notice_id" json:"-"`
	Filename   string    `db:"filename" json:"filename"`
	URL        string    `db:"url" json:"url"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// NoticeDetail 公告详情响应，view_count为数据库值加缓存增量
type NoticeDetail struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	StartAt     time.Time    `json:"start_at"`
	EndAt       time.Time    `json:"end_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ViewCount   int64        `json:"view_count"`
	Author      AuthorInfo   `json:"author"`
	Attachments []Attachment `json:"attachments"`
}

// NoticeListItem 公告列表单项
type NoticeListItem struct {
	ID            int64      `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	HasAttachment bool       `db:"has_attachment" json:"has_attachment"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	StartAt       time.Time  `db:"start_at" json:"start_at"`
	EndAt         time.Time  `db:"end_at" json:"end_at"`
	ViewCount     int64      `db:"view_count" json:"view_count"`
	Author        AuthorInfo `db:"author" json:"author"`
}

// PageInfo 分页信息
type PageInfo struct {
	PageNumber    int   `json:"page_number"` // 页码从0开始
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NoticeList 分页公告列表结果
type NoticeList struct {
	Items    []NoticeListItem `json:"notice_list"`
	PageInfo PageInfo         `json:"page_info"`
}
