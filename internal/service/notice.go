package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"noticeboard/internal/errs"
	"noticeboard/internal/model"
	"noticeboard/internal/repository"
	"noticeboard/internal/types"
	"noticeboard/pkg/async"
	"noticeboard/pkg/logger"

	"k8s.io/apimachinery/pkg/util/rand"
)

const dateLayout = "2006-01-02"

// NoticeService 公告服务接口
type NoticeService interface {
	CreateNotice(ctx context.Context, req types.CreateNoticeRequest) (*model.NoticeDetail, error)
	// 公告详情，同时记录一次浏览
	GetNotice(ctx context.Context, userID, noticeID int64) (*model.NoticeDetail, error)
	// 公告列表（检索+分页）
	GetNoticeList(ctx context.Context, req types.NoticeListRequest) (*model.NoticeList, error)
	UpdateNotice(ctx context.Context, noticeID int64, req types.UpdateNoticeRequest) (*model.NoticeDetail, error)
	DeleteNotice(ctx context.Context, userID, noticeID int64) error
}

// noticeService 公告服务实现
type noticeService struct {
	memberRepo     repository.MemberRepository
	noticeRepo     repository.NoticeRepository
	attachmentRepo repository.AttachmentRepository
	listCache      repository.NoticeListCache
	viewCounts     ViewCountService
	worker         *async.Worker
	logger         *logger.Logger
}

// NewNoticeService 创建公告服务实例
func NewNoticeService(
	memberRepo repository.MemberRepository,
	noticeRepo repository.NoticeRepository,
	attachmentRepo repository.AttachmentRepository,
	listCache repository.NoticeListCache,
	viewCounts ViewCountService,
	worker *async.Worker,
	logger *logger.Logger,
) NoticeService {
	return &noticeService{
		memberRepo:     memberRepo,
		noticeRepo:     noticeRepo,
		attachmentRepo: attachmentRepo,
		listCache:      listCache,
		viewCounts:     viewCounts,
		worker:         worker,
		logger:         logger,
	}
}

// CreateNotice 创建公告
func (s *noticeService) CreateNotice(ctx context.Context, req types.CreateNoticeRequest) (*model.NoticeDetail, error) {
	member, err := s.memberRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}

	// 展示开始时间必须早于结束时间
	if !req.EndAt.After(req.StartAt) {
		return nil, errs.ErrInvalidDateRange
	}

	notice := &model.Notice{
		AuthorID: member.ID,
		Title:    req.Title,
		Content:  req.Content,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
	}
	for _, meta := range req.Attachments {
		notice.Attachments = append(notice.Attachments, model.Attachment{
			Filename: meta.Filename,
			URL:      storageURL(meta.Filename),
		})
	}

	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("创建公告失败: %w", err)
	}

	notice.Author = &model.AuthorInfo{ID: member.ID, Name: member.Name}
	s.invalidateListCache()

	return s.toDetail(ctx, notice), nil
}

// GetNotice 公告详情查询，浏览量走缓存递增
func (s *noticeService) GetNotice(ctx context.Context, userID, noticeID int64) (*model.NoticeDetail, error) {
	member, err := s.memberRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}

	notice, err := s.noticeRepo.GetDetail(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("查询公告失败: %w", err)
	}
	if notice == nil {
		return nil, errs.ErrNoticeNotFound
	}

	// 先递增再组装响应，展示计数包含本次浏览
	s.viewCounts.RecordView(ctx, noticeID)

	return s.toDetail(ctx, notice), nil
}

// GetNoticeList 公告列表（检索+分页）
// 标题+内容检索时分两段查询：标题命中的整体排在仅内容命中的前面
func (s *noticeService) GetNoticeList(ctx context.Context, req types.NoticeListRequest) (*model.NoticeList, error) {
	// 排序字段白名单校验，不合法的请求在访问数据库前就拒绝
	orderBy, err := repository.OrderClause(req.SortField, req.SortDir)
	if err != nil {
		return nil, err
	}

	cond, err := buildSearchCondition(req)
	if err != nil {
		return nil, err
	}

	page, size := req.Page, req.Size
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}

	// 无检索条件的首页走缓存
	cacheable := isDefaultListing(req, cond) && page == 0
	if cacheable {
		if cached, ok := s.listCache.Get(ctx, page, size); ok {
			return cached, nil
		}
	}

	keyword := strings.TrimSpace(cond.Keyword)
	twoPhase := keyword != "" && !cond.TitleOnly

	var items []model.NoticeListItem
	var total int64

	if twoPhase {
		items, total, err = s.searchTwoPhase(ctx, cond, page, size)
	} else {
		items, total, err = s.searchSinglePass(ctx, cond, orderBy, page, size)
	}
	if err != nil {
		return nil, err
	}

	// 列表里的浏览量同样要叠加待刷增量
	s.applyPendingDeltas(ctx, items)

	list := &model.NoticeList{
		Items:    items,
		PageInfo: buildPageInfo(page, size, total),
	}

	if cacheable {
		s.listCache.Set(ctx, page, size, list)
	}

	return list, nil
}

// searchSinglePass 单次查询模式：一条count加一条分页查询
func (s *noticeService) searchSinglePass(ctx context.Context, cond repository.SearchCondition, orderBy string, page, size int) ([]model.NoticeListItem, int64, error) {
	total, err := s.noticeRepo.CountBySearch(ctx, cond)
	if err != nil {
		return nil, 0, fmt.Errorf("统计公告总数失败: %w", err)
	}

	items, err := s.noticeRepo.FindBySearch(ctx, cond, orderBy, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("查询公告列表失败: %w", err)
	}
	return items, total, nil
}

// searchTwoPhase 两段查询模式
// 标题命中集合T和仅内容命中集合C各自按创建时间倒序，T整体在C之前拼接，
// 无论时间先后标题命中都排在前面；总数为两段之和，分页在拼接结果上截取
func (s *noticeService) searchTwoPhase(ctx context.Context, cond repository.SearchCondition, page, size int) ([]model.NoticeListItem, int64, error) {
	titleMatched, err := s.noticeRepo.FindTitleMatched(ctx, cond)
	if err != nil {
		return nil, 0, fmt.Errorf("查询标题命中公告失败: %w", err)
	}

	contentMatched, err := s.noticeRepo.FindContentOnlyMatched(ctx, cond)
	if err != nil {
		return nil, 0, fmt.Errorf("查询内容命中公告失败: %w", err)
	}

	combined := make([]model.NoticeListItem, 0, len(titleMatched)+len(contentMatched))
	combined = append(combined, titleMatched...)
	combined = append(combined, contentMatched...)

	total := int64(len(combined))
	return paginate(combined, page*size, size), total, nil
}

// paginate 在内存列表上截取一页，越界时返回空页
func paginate(items []model.NoticeListItem, offset, size int) []model.NoticeListItem {
	if offset >= len(items) {
		return []model.NoticeListItem{}
	}
	end := min(offset+size, len(items))
	return items[offset:end]
}

// applyPendingDeltas 为列表项叠加待刷浏览量增量
func (s *noticeService) applyPendingDeltas(ctx context.Context, items []model.NoticeListItem) {
	if len(items) == 0 {
		return
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	deltas := s.viewCounts.PendingDeltas(ctx, ids)
	for i := range items {
		items[i].ViewCount += deltas[items[i].ID]
	}
}

// UpdateNotice 更新公告，只有作者可以修改
func (s *noticeService) UpdateNotice(ctx context.Context, noticeID int64, req types.UpdateNoticeRequest) (*model.NoticeDetail, error) {
	member, err := s.memberRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}

	notice, err := s.noticeRepo.GetDetail(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("查询公告失败: %w", err)
	}
	if notice == nil {
		return nil, errs.ErrNoticeNotFound
	}

	if req.UserID != notice.AuthorID {
		return nil, errs.ErrAccessDenied
	}

	// 更新后的起止时间仍需满足先后关系
	finalStart := notice.StartAt
	if req.StartAt != nil {
		finalStart = *req.StartAt
	}
	finalEnd := notice.EndAt
	if req.EndAt != nil {
		finalEnd = *req.EndAt
	}
	if finalStart.After(finalEnd) {
		return nil, errs.ErrInvalidDateRange
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		notice.Title = *req.Title
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
		notice.Content = *req.Content
	}
	notice.StartAt = finalStart
	notice.EndAt = finalEnd

	// 删除的附件必须原本就属于该公告
	if len(req.RemoveAttachmentIDs) > 0 {
		existing := make(map[int64]bool, len(notice.Attachments))
		for _, att := range notice.Attachments {
			existing[att.ID] = true
		}
		for _, removeID := range req.RemoveAttachmentIDs {
			if !existing[removeID] {
				return nil, errs.ErrAttachmentNotFound
			}
		}
		if err := s.attachmentRepo.DeleteByIDs(ctx, req.RemoveAttachmentIDs); err != nil {
			return nil, fmt.Errorf("删除附件失败: %w", err)
		}
	}

	for _, meta := range req.NewAttachments {
		att := &model.Attachment{
			NoticeID: noticeID,
			Filename: meta.Filename,
			URL:      storageURL(meta.Filename),
		}
		if err := s.attachmentRepo.Insert(ctx, att); err != nil {
			return nil, fmt.Errorf("新增附件失败: %w", err)
		}
	}

	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, fmt.Errorf("更新公告失败: %w", err)
	}

	s.invalidateListCache()

	// 重新加载，附件列表取最新状态
	updated, err := s.noticeRepo.GetDetail(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("查询公告失败: %w", err)
	}
	return s.toDetail(ctx, updated), nil
}

// DeleteNotice 删除公告，只有作者可以删除
func (s *noticeService) DeleteNotice(ctx context.Context, userID, noticeID int64) error {
	member, err := s.memberRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if member == nil {
		return errs.ErrMemberNotFound
	}

	notice, err := s.noticeRepo.GetByID(ctx, noticeID)
	if err != nil {
		return fmt.Errorf("查询公告失败: %w", err)
	}
	if notice == nil {
		return errs.ErrNoticeNotFound
	}

	if userID != notice.AuthorID {
		return errs.ErrAccessDenied
	}

	if err := s.noticeRepo.Delete(ctx, noticeID); err != nil {
		return fmt.Errorf("删除公告失败: %w", err)
	}

	s.invalidateListCache()
	return nil
}

// toDetail 组装公告详情响应，展示计数为数据库值加待刷增量
func (s *noticeService) toDetail(ctx context.Context, notice *model.Notice) *model.NoticeDetail {
	detail := &model.NoticeDetail{
		ID:          notice.ID,
		Title:       notice.Title,
		Content:     notice.Content,
		StartAt:     notice.StartAt,
		EndAt:       notice.EndAt,
		CreatedAt:   notice.CreatedAt,
		UpdatedAt:   notice.UpdatedAt,
		ViewCount:   s.viewCounts.CurrentCount(ctx, notice.ID, notice.ViewCount),
		Attachments: notice.Attachments,
	}
	if notice.Author != nil {
		detail.Author = *notice.Author
	}
	if detail.Attachments == nil {
		detail.Attachments = []model.Attachment{}
	}
	return detail
}

// invalidateListCache 公告写操作之后异步失效列表缓存
func (s *noticeService) invalidateListCache() {
	s.worker.AddTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.listCache.InvalidateAll(ctx); err != nil {
			s.logger.Error("列表缓存失效失败", "error", err)
		}
	})
}

// buildSearchCondition 解析检索参数
func buildSearchCondition(req types.NoticeListRequest) (repository.SearchCondition, error) {
	cond := repository.SearchCondition{
		Keyword:   strings.TrimSpace(req.Keyword),
		TitleOnly: req.TitleOnly,
	}

	if req.FromDate != "" {
		from, err := time.ParseInLocation(dateLayout, req.FromDate, time.Local)
		if err != nil {
			return cond, errs.InvalidInputf("日期格式错误: %s", req.FromDate)
		}
		cond.FromDate = &from
	}
	if req.ToDate != "" {
		to, err := time.ParseInLocation(dateLayout, req.ToDate, time.Local)
		if err != nil {
			return cond, errs.InvalidInputf("日期格式错误: %s", req.ToDate)
		}
		cond.ToDate = &to
	}

	return cond, nil
}

// isDefaultListing 是否为无条件的默认排序列表请求
func isDefaultListing(req types.NoticeListRequest, cond repository.SearchCondition) bool {
	if cond.Keyword != "" || cond.FromDate != nil || cond.ToDate != nil {
		return false
	}
	if req.SortField != "" && req.SortField != "createdAt" {
		return false
	}
	if req.SortDir != "" && strings.ToLower(req.SortDir) != "desc" {
		return false
	}
	return true
}

// buildPageInfo 计算分页信息
func buildPageInfo(page, size int, total int64) model.PageInfo {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return model.PageInfo{
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          int64((page+1)*size) >= total,
	}
}

// storageURL 生成附件存储路径，文件名用随机键避免冲突
func storageURL(filename string) string {
	return "/uploads/" + rand.String(20) + strings.ToLower(filepath.Ext(filename))
}
