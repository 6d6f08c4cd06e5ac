package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// 浏览量增量键的命名空间，notice:view:{noticeId}
// 该前缀由浏览量子系统独占，其它组件不得写入
const viewCountKeyPrefix = "notice:view:"

// ViewCountKey 构造公告的浏览量增量键
func ViewCountKey(noticeID int64) string {
	return fmt.Sprintf("%s%d", viewCountKeyPrefix, noticeID)
}

// NoticeIDFromViewKey 从浏览量增量键解析公告ID
func NoticeIDFromViewKey(key string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(key, viewCountKeyPrefix), 10, 64)
}

// ViewCountCache 浏览量增量缓存接口
type ViewCountCache interface {
	// 原子递增公告的待刷增量，键不存在时从0开始
	Increment(ctx context.Context, noticeID int64) error
	// 获取公告的待刷增量，键不存在时返回0
	Delta(ctx context.Context, noticeID int64) (int64, error)
	// 批量获取待刷增量，无增量的公告不出现在结果中
	Deltas(ctx context.Context, noticeIDs []int64) (map[int64]int64, error)
	// 枚举全部待刷增量键
	PendingKeys(ctx context.Context) ([]string, error)
	// 读取一组键的当前值，不存在或非整数的键被跳过
	Values(ctx context.Context, keys []string) (map[string]int64, error)
	// 批量删除键
	DeleteKeys(ctx context.Context, keys []string) error
}

// redisViewCountCache 基于Redis的浏览量增量缓存
type redisViewCountCache struct {
	client *redis.Client
}

// NewViewCountCache 创建浏览量增量缓存实例
func NewViewCountCache(client *redis.Client) ViewCountCache {
	return &redisViewCountCache{client: client}
}

// Increment 原子递增公告的待刷增量
func (c *redisViewCountCache) Increment(ctx context.Context, noticeID int64) error {
	return c.client.IncrBy(ctx, ViewCountKey(noticeID), 1).Err()
}

// Delta 获取公告的待刷增量
func (c *redisViewCountCache) Delta(ctx context.Context, noticeID int64) (int64, error) {
	val, err := c.client.Get(ctx, ViewCountKey(noticeID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// Deltas 批量获取待刷增量
func (c *redisViewCountCache) Deltas(ctx context.Context, noticeIDs []int64) (map[int64]int64, error) {
	if len(noticeIDs) == 0 {
		return map[int64]int64{}, nil
	}

	keys := make([]string, 0, len(noticeIDs))
	for _, id := range noticeIDs {
		keys = append(keys, ViewCountKey(id))
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	deltas := make(map[int64]int64, len(noticeIDs))
	for i, val := range vals {
		s, ok := val.(string)
		if !ok {
			continue // 键不存在
		}
		delta, parseErr := strconv.ParseInt(s, 10, 64)
		if parseErr != nil {
			continue
		}
		deltas[noticeIDs[i]] = delta
	}
	return deltas, nil
}

// PendingKeys 枚举全部待刷增量键
func (c *redisViewCountCache) PendingKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := c.client.Scan(ctx, 0, viewCountKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Values 读取一组键的当前值
func (c *redisViewCountCache) Values(ctx context.Context, keys []string) (map[string]int64, error) {
	if len(keys) == 0 {
		return map[string]int64{}, nil
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	values := make(map[string]int64, len(keys))
	for i, val := range vals {
		s, ok := val.(string)
		if !ok {
			continue
		}
		v, parseErr := strconv.ParseInt(s, 10, 64)
		if parseErr != nil {
			continue
		}
		values[keys[i]] = v
	}
	return values, nil
}

// DeleteKeys 批量删除键
func (c *redisViewCountCache) DeleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
