package store

import (
	"context"
	"testing"
)

// TestRedisStore 需要真实 Redis 实例，默认跳过。
// 本地验证：docker run --rm -p 6379:6379 redis 后移除 Skip。
func TestRedisStore(t *testing.T) {
	t.Skip("需要连接真实的 Redis 才能运行")

	ctx := context.Background()
	s, err := NewRedisStore("localhost:6379", 0, "placekit-test:")
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()
	defer s.Clear(ctx)

	if err := s.Set(ctx, "k1", []byte("v1"), 60); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	// Redis 原生过期：PurgeExpired 按约定返回 0
	if n, err := s.PurgeExpired(ctx); n != 0 || err != nil {
		t.Errorf("PurgeExpired() = %d, %v, want 0", n, err)
	}

	if n, _ := s.Entries(ctx); n != 1 {
		t.Errorf("Entries() = %d, want 1", n)
	}
}
