package store

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rushteam/placekit/core"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("badger.Open() error = %v", err)
	}
	s := NewBadgerStoreWithDB(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("缺失键应返回 not found, got %v", err)
	}

	if err := s.Set(ctx, "k1", []byte("v1"), 3600); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Errorf("删除后应返回 not found, got %v", err)
	}
}

func TestBadgerStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "short", []byte("x"), 60)
	_ = s.Set(ctx, "forever", []byte("y"))

	// 存活条件是 age < ttl：恰好到龄即过期。
	// 过期条目读路径视为缺失，但仍在库里可被 PurgeExpired 计数删除
	s.now = func() time.Time { return now.Add(60 * time.Second) }
	if _, err := s.Get(ctx, "short"); !core.IsStoreNotFound(err) {
		t.Errorf("age == ttl 应返回 not found, got %v", err)
	}
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("无 TTL 键不应过期, error = %v", err)
	}

	if n, _ := s.Entries(ctx); n != 1 {
		t.Errorf("Entries() = %d, want 1", n)
	}

	purged, err := s.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Errorf("PurgeExpired() = %d, %v, want 1", purged, err)
	}
}

func TestBadgerStore_BatchAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := s.BatchSet(ctx, kvs, 3600); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil || len(got) != 2 {
		t.Errorf("BatchGet() = %v, %v", got, err)
	}

	cleared, err := s.Clear(ctx)
	if err != nil || cleared != 2 {
		t.Errorf("Clear() = %d, %v, want 2", cleared, err)
	}
	if n, _ := s.Entries(ctx); n != 0 {
		t.Errorf("Clear 后 Entries() = %d", n)
	}
}
