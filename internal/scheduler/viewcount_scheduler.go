package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"noticeboard/internal/repository"
	"noticeboard/pkg/logger"
)

// ViewCountScheduler 浏览量刷库调度器
// 周期性地把Redis里累积的浏览量增量批量写入数据库
type ViewCountScheduler struct {
	cache      repository.ViewCountCache
	noticeRepo repository.NoticeRepository
	logger     *logger.Logger
	interval   time.Duration
	running    atomic.Bool
	quit       chan struct{}
}

// NewViewCountScheduler 创建浏览量刷库调度器实例
func NewViewCountScheduler(
	cache repository.ViewCountCache,
	noticeRepo repository.NoticeRepository,
	logger *logger.Logger,
	interval time.Duration,
) *ViewCountScheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &ViewCountScheduler{
		cache:      cache,
		noticeRepo: noticeRepo,
		logger:     logger,
		interval:   interval,
		quit:       make(chan struct{}),
	}
}

// Start 启动浏览量刷库调度器
func (s *ViewCountScheduler) Start() {
	go s.flushLoop()
	s.logger.Info("浏览量刷库调度器启动", "interval", s.interval.String())
}

// Stop 停止浏览量刷库调度器
func (s *ViewCountScheduler) Stop() {
	close(s.quit)
	s.logger.Info("浏览量刷库调度器停止")
}

// flushLoop 刷库定时器
func (s *ViewCountScheduler) flushLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Flush()
		case <-s.quit:
			return
		}
	}
}

// Flush 执行一次刷库周期
// 上一轮尚未结束时本轮直接跳过，周期不重入
func (s *ViewCountScheduler) Flush() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("上一轮浏览量刷库尚未结束，本轮跳过")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// 1. 枚举全部待刷键；缓存不可用时中止本轮，键保持原样等下轮重试
	keys, err := s.cache.PendingKeys(ctx)
	if err != nil {
		s.logger.Error("枚举浏览量增量键失败，本轮中止", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	// 2. 读取各键的增量，零和负值直接丢弃
	values, err := s.cache.Values(ctx, keys)
	if err != nil {
		s.logger.Error("读取浏览量增量失败，本轮中止", "error", err)
		return
	}

	deltas := make(map[int64]int64, len(values))
	for key, delta := range values {
		if delta <= 0 {
			continue
		}
		noticeID, parseErr := repository.NoticeIDFromViewKey(key)
		if parseErr != nil {
			s.logger.Warn("无法解析浏览量增量键", "key", key)
			continue
		}
		deltas[noticeID] = delta
	}
	if len(deltas) == 0 {
		return
	}

	// 3. 先删键再写库：从这里开始增量处于在途状态，
	// 之后到来的浏览落进新一轮增量窗口而不会丢失
	if err := s.cache.DeleteKeys(ctx, keys); err != nil {
		s.logger.Error("删除浏览量增量键失败，本轮中止", "error", err)
		return
	}

	// 4. 单条批量语句累加到数据库
	// 删键之后写库失败会丢掉本轮增量，浏览量按尽力而为设计，不做补偿
	if err := s.noticeRepo.BatchIncreaseViewCount(ctx, deltas); err != nil {
		s.logger.Error("浏览量批量刷库失败，本轮增量丢失", "notices", len(deltas), "error", err)
		return
	}

	s.logger.Info("浏览量刷库完成", "notices", len(deltas))
}
