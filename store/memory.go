package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/placekit/core"
)

// MemoryStore 是内存实现的 CacheStore，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
//
// 过期条目不会被后台清理：读路径把它们当未命中，物理删除
// 依赖显式的 PurgeExpired 调用。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry

	// now 可注入，便于测试过期语义
	now func() time.Time
}

type entry struct {
	value    []byte
	expireAt *time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*entry),
		now:  time.Now,
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.expireAt != nil && !m.now().Before(*e.expireAt) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &entry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := m.now().Add(time.Duration(ttl[0]) * time.Second)
		e.expireAt = &expire
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := m.now()
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok {
			continue
		}
		if e.expireAt != nil && !now.Before(*e.expireAt) {
			continue
		}
		result[k] = e.value
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expire *time.Time
	if len(ttl) > 0 && ttl[0] > 0 {
		t := m.now().Add(time.Duration(ttl[0]) * time.Second)
		expire = &t
	}

	for k, v := range kvs {
		m.data[k] = &entry{value: v, expireAt: expire}
	}
	return nil
}

// PurgeExpired 删除所有已过期条目，返回删除数量。
func (m *MemoryStore) PurgeExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.data {
		if e.expireAt != nil && !now.Before(*e.expireAt) {
			delete(m.data, k)
			removed++
		}
	}
	return removed, nil
}

// Clear 清空全部条目，返回删除数量。
func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := len(m.data)
	m.data = make(map[string]*entry)
	return removed, nil
}

// Entries 返回当前存活（未过期）条目数。
func (m *MemoryStore) Entries(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	count := 0
	for _, e := range m.data {
		if e.expireAt != nil && !now.Before(*e.expireAt) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *MemoryStore) Close() error { return nil }

// 确保 MemoryStore 实现了 core.CacheStore 接口
var _ core.CacheStore = (*MemoryStore)(nil)
