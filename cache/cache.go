// Package cache 实现配额友好的结果缓存：类目搜索结果与地点明细的
// 信封编解码、键归一化、命中统计。存储后端由 core.CacheStore 抽象，
// 见 store 包的各实现。
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/placekit/core"
)

// DefaultTTL 是缓存条目的默认有效期（秒）。
const DefaultTTL = 3600

// Stats 是缓存的运行统计。
type Stats struct {
	HitCount   int64 `json:"hit_count"`
	MissCount  int64 `json:"miss_count"`
	EntryCount int   `json:"entry_count"`
}

// envelope 是缓存负载的落盘格式。
// ExpiresAt 随条目一起落盘：无论后端是否支持原生过期，
// 读路径都按它判定新鲜度——超龄条目即使从未被清理也表现为未命中。
type envelope struct {
	Key       string             `json:"key"`
	Params    core.SearchParams  `json:"params"`
	Places    []*core.Place      `json:"places"`
	CachedAt  time.Time          `json:"cached_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// ResultCache 是类目搜索结果的缓存层。
//
// 缓存是 best-effort 的：损坏或不可解析的条目静默降级为未命中，
// 绝不把缓存层故障上抛给调用方。
// TTL 是实例级默认值，不支持写入时逐条覆盖。
type ResultCache struct {
	store core.CacheStore
	keys  KeyBuilder
	ttl   int // 秒

	hits   atomic.Int64
	misses atomic.Int64

	// now 可注入，便于测试过期语义
	now func() time.Time
}

// Option 配置 ResultCache。
type Option func(*ResultCache)

// WithTTL 覆盖默认有效期（秒）。
func WithTTL(seconds int) Option {
	return func(c *ResultCache) {
		if seconds > 0 {
			c.ttl = seconds
		}
	}
}

// WithKeyBuilder 覆盖键构造器。
func WithKeyBuilder(kb KeyBuilder) Option {
	return func(c *ResultCache) { c.keys = kb }
}

// New 创建结果缓存，默认 TTL 3600 秒。
func New(store core.CacheStore, opts ...Option) *ResultCache {
	c := &ResultCache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key 暴露键构造，便于编排层与测试复用。
func (c *ResultCache) Key(params core.SearchParams) string {
	return c.keys.Build(params)
}

// TTL 返回实例级有效期（秒）。
func (c *ResultCache) TTL() int { return c.ttl }

// Get 读取类目搜索结果。
// 返回 (places, true) 表示命中；任何缺失/过期/损坏情形返回 (nil, false)。
func (c *ResultCache) Get(ctx context.Context, params core.SearchParams) ([]*core.Place, bool) {
	key := c.keys.Build(params)
	env, ok := c.read(ctx, key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return env.Places, true
}

// Put 写入类目搜索结果。空结果集同样写入：
// 已知为空的类目在 TTL 内不再重复打到上游。
func (c *ResultCache) Put(ctx context.Context, params core.SearchParams, places []*core.Place) error {
	key := c.keys.Build(params)
	now := c.now()
	env := envelope{
		Key:       key,
		Params:    params,
		Places:    places,
		CachedAt:  now,
		ExpiresAt: now.Add(time.Duration(c.ttl) * time.Second),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, c.ttl)
}

// GetDetails 读取单地点明细缓存。
func (c *ResultCache) GetDetails(ctx context.Context, placeID string) (*core.Place, bool) {
	key := c.keys.DetailKey(placeID)
	env, ok := c.read(ctx, key)
	if !ok || len(env.Places) == 0 {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return env.Places[0], true
}

// PutDetails 写入单地点明细缓存。
func (c *ResultCache) PutDetails(ctx context.Context, place *core.Place) error {
	if place == nil || place.ID == "" {
		return nil
	}
	key := c.keys.DetailKey(place.ID)
	now := c.now()
	env := envelope{
		Key:       key,
		Places:    []*core.Place{place},
		CachedAt:  now,
		ExpiresAt: now.Add(time.Duration(c.ttl) * time.Second),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, c.ttl)
}

// Stats 返回命中/未命中计数与后端存活条目数。
// 后端条目数不可得时记 0，统计不因后端故障失败。
func (c *ResultCache) Stats(ctx context.Context) Stats {
	entries, err := c.store.Entries(ctx)
	if err != nil {
		entries = 0
	}
	return Stats{
		HitCount:   c.hits.Load(),
		MissCount:  c.misses.Load(),
		EntryCount: entries,
	}
}

// PurgeExpired 清理后端中已过期的条目，返回删除数量。
func (c *ResultCache) PurgeExpired(ctx context.Context) (int, error) {
	return c.store.PurgeExpired(ctx)
}

// Clear 清空后端全部条目并重置计数，返回删除数量。
func (c *ResultCache) Clear(ctx context.Context) (int, error) {
	removed, err := c.store.Clear(ctx)
	if err != nil {
		return removed, err
	}
	c.hits.Store(0)
	c.misses.Store(0)
	return removed, nil
}

// read 读取并校验一个信封。未命中/过期/损坏统一返回 false。
func (c *ResultCache) read(ctx context.Context, key string) (*envelope, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// 损坏条目：静默当作未命中（缓存 best-effort）
		return nil, false
	}
	// 条目存活条件是 age < ttl：到龄即过期，等于 ttl 也算超龄
	if !env.ExpiresAt.IsZero() && !c.now().Before(env.ExpiresAt) {
		return nil, false
	}
	return &env, true
}
