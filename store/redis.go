package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/placekit/core"
)

// RedisStore 是 Redis 实现的 CacheStore，用于多实例共享同一份结果缓存。
// TTL 交给 Redis 原生过期；PurgeExpired 因此是约定上的空操作（返回 0）。
//
// 所有 key 统一加 keyPrefix，Clear/Entries 只作用于本前缀下的 key，
// 与同库其他业务数据隔离。
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore 创建 Redis 存储。keyPrefix 为空时使用 "placekit:"。
func NewRedisStore(addr string, db int, keyPrefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	if keyPrefix == "" {
		keyPrefix = "placekit:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) key(k string) string { return r.keyPrefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}
	return r.client.Set(ctx, r.key(key), value, expiration).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *RedisStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}

	vals, err := r.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for i, k := range keys {
		if vals[i] != nil {
			if s, ok := vals[i].(string); ok {
				result[k] = []byte(s)
			}
		}
	}
	return result, nil
}

func (r *RedisStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	pipe := r.client.Pipeline()
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}

	for k, v := range kvs {
		pipe.Set(ctx, r.key(k), v, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// PurgeExpired 对 Redis 是空操作：过期 key 由 Redis 自行回收。
func (r *RedisStore) PurgeExpired(_ context.Context) (int, error) {
	return 0, nil
}

// Clear 删除本前缀下的全部 key，返回删除数量。
func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if r.client.Del(ctx, iter.Val()).Err() == nil {
			removed++
		}
	}
	return removed, iter.Err()
}

// Entries 返回本前缀下的存活 key 数量。
func (r *RedisStore) Entries(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }

var _ core.CacheStore = (*RedisStore)(nil)
