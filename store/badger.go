package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/rushteam/placekit/core"
)

// BadgerStore 是 BadgerDB 实现的 CacheStore：内嵌持久化 KV，
// 生产单机部署首选（崩溃可恢复、无外部依赖）。
//
// 过期时间记录在自有信封里而不是交给 badger 的原生 TTL：
// 这样过期条目在 PurgeExpired 时仍可枚举并计数删除，
// 读路径照样把它们当未命中。
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

type badgerRecord struct {
	Value    []byte    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
	ExpireAt time.Time `json:"expire_at,omitempty"`
}

// NewBadgerStore 打开 dir 下的 badger 数据库并封装为 CacheStore。
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

// NewBadgerStoreWithDB 复用已打开的 badger 实例（与其他组件共库时）。
func NewBadgerStoreWithDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func (b *BadgerStore) Name() string { return "badger" }

func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var rec badgerRecord
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrStoreNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if json.Unmarshal(val, &rec) != nil {
				// 损坏条目按未命中处理
				return core.ErrStoreNotFound
			}
			return nil
		})
	})
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrStoreNotFound
		}
		return nil, err
	}
	if b.expired(&rec) {
		return nil, core.ErrStoreNotFound
	}
	return rec.Value, nil
}

func (b *BadgerStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	rec := badgerRecord{Value: value, StoredAt: b.now()}
	if len(ttl) > 0 && ttl[0] > 0 {
		rec.ExpireAt = rec.StoredAt.Add(time.Duration(ttl[0]) * time.Second)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, err := b.Get(ctx, k); err == nil {
			result[k] = v
		}
	}
	return result, nil
}

func (b *BadgerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	for k, v := range kvs {
		if err := b.Set(ctx, k, v, ttl...); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired 遍历并删除已过期及损坏的条目，返回删除数量。
func (b *BadgerStore) PurgeExpired(_ context.Context) (int, error) {
	var stale [][]byte

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec badgerRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil || b.expired(&rec) {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range stale {
		err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err == nil {
			removed++
		}
	}
	return removed, nil
}

// Clear 删除全部条目，返回删除数量。
func (b *BadgerStore) Clear(_ context.Context) (int, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err == nil {
			removed++
		}
	}
	return removed, nil
}

// Entries 返回当前存活（可解析且未过期）条目数。
func (b *BadgerStore) Entries(_ context.Context) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec badgerRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err == nil && !b.expired(&rec) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) expired(rec *badgerRecord) bool {
	return !rec.ExpireAt.IsZero() && !b.now().Before(rec.ExpireAt)
}

var _ core.CacheStore = (*BadgerStore)(nil)
