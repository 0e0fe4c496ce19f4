package core

import "context"

// Store 是存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 实现：
//   - store.MemoryStore 实现此接口（测试/开发）
//   - store.FileStore 实现此接口（单机文件缓存）
//   - store.BadgerStore 实现此接口（生产内嵌 KV）
//   - store.RedisStore 实现此接口（共享缓存部署）
type Store interface {
	// Name 返回存储后端名称（用于观测/排障）
	Name() string

	// Get 读取单个 key 的值。
	// key 不存在、条目已过期、条目损坏，统一返回 ErrStoreNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 以秒计（0 表示不过期）。
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取（减少往返，过期/缺失的 key 不出现在结果中）
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// CacheStore 是 Store 的扩展接口，补充缓存治理操作。
//
// 读路径与清理解耦：过期条目在 Get 时表现为未命中，物理删除由
// PurgeExpired 这一显式维护操作完成，避免读延迟被清理拖累。
type CacheStore interface {
	Store

	// PurgeExpired 清理已过期的条目，返回删除数量。
	PurgeExpired(ctx context.Context) (int, error)

	// Clear 清空全部条目，返回删除数量。
	Clear(ctx context.Context) (int, error)

	// Entries 返回当前存活条目数（用于 cache_stats）。
	Entries(ctx context.Context) (int, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在（含过期、损坏两种降级情形）
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
