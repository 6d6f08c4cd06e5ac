package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"noticeboard/internal/repository"
	"noticeboard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeViewCache 内存版浏览量增量缓存，各步骤可注入故障
type fakeViewCache struct {
	mu         sync.Mutex
	values     map[string]int64
	failScan   bool
	failValues bool
	failDelete bool
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{values: map[string]int64{}}
}

func (f *fakeViewCache) set(noticeID, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[repository.ViewCountKey(noticeID)] = delta
}

func (f *fakeViewCache) Increment(ctx context.Context, noticeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[repository.ViewCountKey(noticeID)]++
	return nil
}

func (f *fakeViewCache) Delta(ctx context.Context, noticeID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[repository.ViewCountKey(noticeID)], nil
}

func (f *fakeViewCache) Deltas(ctx context.Context, noticeIDs []int64) (map[int64]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deltas := map[int64]int64{}
	for _, id := range noticeIDs {
		if v, ok := f.values[repository.ViewCountKey(id)]; ok {
			deltas[id] = v
		}
	}
	return deltas, nil
}

func (f *fakeViewCache) PendingKeys(ctx context.Context) ([]string, error) {
	if f.failScan {
		return nil, errors.New("redis: connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := []string{}
	for key := range f.values {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *fakeViewCache) Values(ctx context.Context, keys []string) (map[string]int64, error) {
	if f.failValues {
		return nil, errors.New("redis: connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	values := map[string]int64{}
	for _, key := range keys {
		if v, ok := f.values[key]; ok {
			values[key] = v
		}
	}
	return values, nil
}

func (f *fakeViewCache) DeleteKeys(ctx context.Context, keys []string) error {
	if f.failDelete {
		return errors.New("redis: connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeViewCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.values)
}

// fakeNoticeStore 只实现批量刷库的公告存储库桩
// 其余接口方法不会被调度器调用
type fakeNoticeStore struct {
	repository.NoticeRepository
	mu        sync.Mutex
	durable   map[int64]int64
	calls     int
	failApply bool
	entered   chan struct{} // 非nil时每次进入都发信号
	release   chan struct{} // 非nil时阻塞直到被关闭
}

func newFakeNoticeStore() *fakeNoticeStore {
	return &fakeNoticeStore{durable: map[int64]int64{}}
}

func (f *fakeNoticeStore) BatchIncreaseViewCount(ctx context.Context, deltas map[int64]int64) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failApply {
		return errors.New("mysql: connection refused")
	}
	for id, delta := range deltas {
		f.durable[id] += delta
	}
	return nil
}

func (f *fakeNoticeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeNoticeStore) durableCount(noticeID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.durable[noticeID]
}

func newTestScheduler(cache repository.ViewCountCache, store repository.NoticeRepository) *ViewCountScheduler {
	return NewViewCountScheduler(cache, store, logger.NewLogger("error"), time.Minute)
}

func TestFlushAppliesDeltasAndDeletesKeys(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 3)
	cache.set(2, 5)

	newTestScheduler(cache, store).Flush()

	// 增量累加到数据库
	assert.Equal(t, int64(3), store.durableCount(1))
	assert.Equal(t, int64(5), store.durableCount(2))
	// 键被删除而不是清零，下一轮从零开始
	assert.Zero(t, cache.size())
}

func TestFlushNoPendingIsNoop(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()

	newTestScheduler(cache, store).Flush()

	assert.Zero(t, store.callCount())
}

func TestFlushDiscardsNonPositiveDeltas(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 0)
	cache.set(2, -2)
	cache.set(3, 4)

	newTestScheduler(cache, store).Flush()

	// 零和负值不进更新语句
	assert.Zero(t, store.durableCount(1))
	assert.Zero(t, store.durableCount(2))
	assert.Equal(t, int64(4), store.durableCount(3))
	assert.Zero(t, cache.size())
}

func TestFlushAllNonPositiveEndsCycle(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 0)
	cache.set(2, -1)

	newTestScheduler(cache, store).Flush()

	// 没有有效增量时整轮结束，不删键也不写库
	assert.Zero(t, store.callCount())
	assert.Equal(t, 2, cache.size())
}

func TestFlushScanFailureAborts(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 3)
	cache.failScan = true

	newTestScheduler(cache, store).Flush()

	// 枚举失败时中止，键原样保留等下轮重试
	assert.Zero(t, store.callCount())
	assert.Equal(t, 1, cache.size())
}

func TestFlushReadFailureAborts(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 3)
	cache.failValues = true

	newTestScheduler(cache, store).Flush()

	assert.Zero(t, store.callCount())
	assert.Equal(t, 1, cache.size())
}

func TestFlushDeleteFailureAborts(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 3)
	cache.failDelete = true

	newTestScheduler(cache, store).Flush()

	// 删键失败时不写库，避免重复累加
	assert.Zero(t, store.durableCount(1))
	assert.Equal(t, 1, cache.size())
}

func TestFlushApplyFailureLosesWindow(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 3)
	store.failApply = true

	scheduler := newTestScheduler(cache, store)
	scheduler.Flush()

	// 删键之后写库失败，本轮增量按设计丢弃且不重试
	assert.Equal(t, 1, store.callCount())
	assert.Zero(t, store.durableCount(1))
	assert.Zero(t, cache.size())

	// 下一轮正常进行，没有补偿残留
	store.failApply = false
	cache.set(1, 2)
	scheduler.Flush()
	assert.Equal(t, int64(2), store.durableCount(1))
}

func TestFlushSkipsWhileRunning(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	store.entered = make(chan struct{}, 1)
	store.release = make(chan struct{})
	cache.set(1, 3)

	scheduler := newTestScheduler(cache, store)

	done := make(chan struct{})
	go func() {
		scheduler.Flush()
		close(done)
	}()
	<-store.entered

	// 上一轮还卡在写库，本轮立即返回
	scheduler.Flush()
	assert.Equal(t, 1, store.callCount())

	close(store.release)
	<-done
	assert.Equal(t, int64(3), store.durableCount(1))
}

func TestFlushAccumulatesConcurrentIncrements(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Increment(ctx, 42)
		}()
	}
	wg.Wait()

	newTestScheduler(cache, store).Flush()

	assert.Equal(t, int64(n), store.durableCount(42))
	assert.Zero(t, cache.size())
}

func TestSchedulerStartStop(t *testing.T) {
	cache := newFakeViewCache()
	store := newFakeNoticeStore()
	cache.set(1, 7)

	scheduler := NewViewCountScheduler(cache, store, logger.NewLogger("error"), 10*time.Millisecond)
	scheduler.Start()
	defer scheduler.Stop()

	// 定时周期自动把增量刷进数据库
	require.Eventually(t, func() bool {
		return store.durableCount(1) == 7
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, cache.size())
}
