package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/placekit/core"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func TestFileStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)
	defer s.Close()

	if _, err := s.Get(ctx, "search:missing"); !core.IsStoreNotFound(err) {
		t.Errorf("缺失键应返回 not found, got %v", err)
	}

	if err := s.Set(ctx, "search:abc123", []byte(`{"places":[]}`), 3600); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "search:abc123")
	if err != nil || string(got) != `{"places":[]}` {
		t.Errorf("Get() = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "search:abc123"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "search:abc123"); !core.IsStoreNotFound(err) {
		t.Errorf("删除后应返回 not found, got %v", err)
	}

	// 删除不存在的键不报错
	if err := s.Delete(ctx, "search:missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestFileStore_KeyCollision(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	// "a:b" 与 "a_b" 折算到同一个文件名，记录内的 key 回查必须兜住
	if err := s.Set(ctx, "a:b", []byte("first"), 3600); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Get(ctx, "a_b"); !core.IsStoreNotFound(err) {
		t.Errorf("冲突键不应读到他人数据, got %v", err)
	}
}

func TestFileStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "search:k", []byte("v"), 60)

	// 存活条件是 age < ttl：恰好 60 秒时记录已过期
	s.now = func() time.Time { return now.Add(60 * time.Second) }
	if _, err := s.Get(ctx, "search:k"); !core.IsStoreNotFound(err) {
		t.Errorf("age == ttl 应返回 not found, got %v", err)
	}

	// 文件还在磁盘上，PurgeExpired 才物理删除
	purged, err := s.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Errorf("PurgeExpired() = %d, %v, want 1", purged, err)
	}
}

func TestFileStore_PurgeRemovesCorrupted(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	_ = s.Set(ctx, "search:good", []byte("v"), 3600)

	// 手工放一个无法解析的记录文件
	bad := filepath.Join(s.dir, "broken.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if n, _ := s.Entries(ctx); n != 1 {
		t.Errorf("Entries() = %d, want 1（损坏文件不计）", n)
	}

	purged, err := s.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Errorf("PurgeExpired() = %d, %v, want 1（损坏文件被回收）", purged, err)
	}

	if _, err := s.Get(ctx, "search:good"); err != nil {
		t.Errorf("存活记录不应被清理, error = %v", err)
	}
}

func TestFileStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	_ = s.Set(ctx, "search:a", []byte("1"), 3600)
	_ = s.Set(ctx, "search:b", []byte("2"), 3600)

	cleared, err := s.Clear(ctx)
	if err != nil || cleared != 2 {
		t.Errorf("Clear() = %d, %v, want 2", cleared, err)
	}
	if n, _ := s.Entries(ctx); n != 0 {
		t.Errorf("Clear 后 Entries() = %d", n)
	}
}
