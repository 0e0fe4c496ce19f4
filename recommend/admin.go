package recommend

import (
	"context"

	"github.com/rushteam/placekit/cache"
)

// 缓存运维入口。推荐链路自身不触发清理——过期条目由读取侧
// 按存储时间判定，这里的操作供定时任务或运维工具显式调用。

// PurgeExpiredCache 清理过期缓存条目，返回清理数量。
// 由后端自动过期的存储（如 Redis）返回 0。
func (a *Assembler) PurgeExpiredCache(ctx context.Context) (int, error) {
	return a.cache.PurgeExpired(ctx)
}

// ClearCache 清空全部缓存条目并重置命中计数，返回清理数量。
func (a *Assembler) ClearCache(ctx context.Context) (int, error) {
	return a.cache.Clear(ctx)
}

// CacheStats 返回缓存命中统计与当前条目数。
func (a *Assembler) CacheStats(ctx context.Context) cache.Stats {
	return a.cache.Stats(ctx)
}
