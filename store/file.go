package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/placekit/core"
)

// FileStore 是文件实现的 CacheStore：每个 key 一个 JSON 记录文件。
// 适合单机部署的持久化缓存目录，进程重启后数据仍在。
//
// 写入走临时文件 + rename，避免并发读者看到半截记录；
// 同 key 并发写 last-writer-wins。
// 损坏或不可读的记录文件一律按未命中处理，不向调用方抛错。
type FileStore struct {
	dir string
	now func() time.Time
}

// fileRecord 是落盘的记录格式。Value 以 base64 承载任意字节。
type fileRecord struct {
	Key      string    `json:"key"`
	Value    []byte    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
	// ExpireAt 为零值表示不过期
	ExpireAt time.Time `json:"expire_at,omitempty"`
}

// NewFileStore 创建一个文件存储，记录落在 dir 下（目录不存在时创建）。
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (f *FileStore) Name() string { return "file" }

// path 把 key 转成记录文件路径。
// key 形如 "search:<md5>" 或 "details:<place_id>"，
// 文件名只保留字母数字与 -_，其余字符折算为 '_'。
func (f *FileStore) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, name+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	rec, err := f.readRecord(f.path(key))
	if err != nil {
		return nil, core.ErrStoreNotFound
	}
	// 文件名折算可能冲突，key 必须回查
	if rec.Key != key {
		return nil, core.ErrStoreNotFound
	}
	if f.expired(rec) {
		return nil, core.ErrStoreNotFound
	}
	return rec.Value, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	rec := fileRecord{
		Key:      key,
		Value:    value,
		StoredAt: f.now(),
	}
	if len(ttl) > 0 && ttl[0] > 0 {
		rec.ExpireAt = rec.StoredAt.Add(time.Duration(ttl[0]) * time.Second)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, err := f.Get(ctx, k); err == nil {
			result[k] = v
		}
	}
	return result, nil
}

func (f *FileStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	for k, v := range kvs {
		if err := f.Set(ctx, k, v, ttl...); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired 删除所有已过期及无法解析的记录文件，返回删除数量。
func (f *FileStore) PurgeExpired(_ context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range paths {
		rec, err := f.readRecord(p)
		if err != nil || f.expired(rec) {
			if os.Remove(p) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Clear 删除全部记录文件，返回删除数量。
func (f *FileStore) Clear(_ context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range paths {
		if os.Remove(p) == nil {
			removed++
		}
	}
	return removed, nil
}

// Entries 返回当前存活（可解析且未过期）记录数。
func (f *FileStore) Entries(_ context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range paths {
		rec, err := f.readRecord(p)
		if err == nil && !f.expired(rec) {
			count++
		}
	}
	return count, nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) readRecord(path string) (*fileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (f *FileStore) expired(rec *fileRecord) bool {
	return !rec.ExpireAt.IsZero() && !f.now().Before(rec.ExpireAt)
}

var _ core.CacheStore = (*FileStore)(nil)
