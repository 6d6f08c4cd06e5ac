package constants

// 通用错误消息
const (
	// 参数相关错误
	ErrInvalidParams  = "参数错误"
	ErrInvalidFormat  = "格式错误"
	ErrInvalidRequest = "无效请求格式"

	// 用户相关错误
	ErrMemberNotFound = "用户不存在"
	ErrEmailExists    = "该邮箱已被注册"

	// 公告相关错误
	ErrNoticeNotFound     = "公告不存在"
	ErrAttachmentNotFound = "附件不存在"
	ErrInvalidDateRange   = "展示开始时间必须早于结束时间"
	ErrNotNoticeOwner     = "只有作者可以操作该公告"

	// 系统错误
	ErrInternalServer = "服务器内部错误"
	ErrAccessDenied   = "无权访问"
)

// 成功消息
const (
	SuccessCreate = "创建成功"
	SuccessUpdate = "更新成功"
	SuccessDelete = "删除成功"
	SuccessGet    = "获取成功"
)
