package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noticeboard/internal/model"
	"noticeboard/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	noticeListCachePrefix   = "notices:list:"
	noticeListCacheDuration = 5 * time.Minute
)

// NoticeListCache 无条件首页列表的Redis缓存
// 只缓存不带任何检索条件的列表页，公告写操作后整体失效
type NoticeListCache interface {
	Get(ctx context.Context, page, size int) (*model.NoticeList, bool)
	Set(ctx context.Context, page, size int, list *model.NoticeList)
	InvalidateAll(ctx context.Context) error
}

// redisNoticeListCache 基于Redis的列表缓存实现
type redisNoticeListCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewNoticeListCache 创建列表缓存实例
func NewNoticeListCache(client *redis.Client, logger *logger.Logger) NoticeListCache {
	return &redisNoticeListCache{client: client, logger: logger}
}

func noticeListCacheKey(page, size int) string {
	return fmt.Sprintf("%s%d:%d", noticeListCachePrefix, page, size)
}

// Get 尝试读取缓存，未命中或反序列化失败时返回false
func (c *redisNoticeListCache) Get(ctx context.Context, page, size int) (*model.NoticeList, bool) {
	data, err := c.client.Get(ctx, noticeListCacheKey(page, size)).Bytes()
	if err != nil {
		return nil, false
	}

	var list model.NoticeList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false
	}
	return &list, true
}

// Set 写入缓存，失败只记录日志
func (c *redisNoticeListCache) Set(ctx context.Context, page, size int, list *model.NoticeList) {
	data, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, noticeListCacheKey(page, size), data, noticeListCacheDuration).Err(); err != nil {
		c.logger.Warn("写入列表缓存失败", "page", page, "size", size, "error", err)
	}
}

// InvalidateAll 使全部列表缓存失效
func (c *redisNoticeListCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, noticeListCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Error("删除列表缓存失败", "key", iter.Val(), "error", err)
		}
	}
	return iter.Err()
}
