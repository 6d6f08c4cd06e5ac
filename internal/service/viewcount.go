package service

import (
	"context"

	"noticeboard/internal/repository"
	"noticeboard/pkg/logger"
)

// ViewCountService 浏览量服务接口
// 记录浏览和读取展示计数都是尽力而为：缓存不可用时读取流程照常进行
type ViewCountService interface {
	// 记录一次浏览，失败只记日志不阻断调用方
	RecordView(ctx context.Context, noticeID int64)
	// 当前展示计数 = 数据库值 + 待刷增量，每次读取都重新计算
	CurrentCount(ctx context.Context, noticeID, durableCount int64) int64
	// 批量获取待刷增量，缓存不可用时返回空映射
	PendingDeltas(ctx context.Context, noticeIDs []int64) map[int64]int64
}

// viewCountService 浏览量服务实现
type viewCountService struct {
	cache  repository.ViewCountCache
	logger *logger.Logger
}

// NewViewCountService 创建浏览量服务实例
func NewViewCountService(cache repository.ViewCountCache, logger *logger.Logger) ViewCountService {
	return &viewCountService{cache: cache, logger: logger}
}

// RecordView 记录一次浏览
func (s *viewCountService) RecordView(ctx context.Context, noticeID int64) {
	if err := s.cache.Increment(ctx, noticeID); err != nil {
		// 计数器故障不影响读取流程，本次浏览不计入
		s.logger.Warn("记录浏览量失败", "notice_id", noticeID, "error", err)
	}
}

// CurrentCount 当前展示计数
func (s *viewCountService) CurrentCount(ctx context.Context, noticeID, durableCount int64) int64 {
	delta, err := s.cache.Delta(ctx, noticeID)
	if err != nil {
		s.logger.Warn("读取浏览量增量失败", "notice_id", noticeID, "error", err)
		return durableCount
	}
	return durableCount + delta
}

// PendingDeltas 批量获取待刷增量
func (s *viewCountService) PendingDeltas(ctx context.Context, noticeIDs []int64) map[int64]int64 {
	deltas, err := s.cache.Deltas(ctx, noticeIDs)
	if err != nil {
		s.logger.Warn("批量读取浏览量增量失败", "error", err)
		return map[int64]int64{}
	}
	return deltas
}
