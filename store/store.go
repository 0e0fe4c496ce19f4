package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.CacheStore 接口。
//
// 示例：
//   var cs core.CacheStore = NewMemoryStore()
//   var cs core.CacheStore = NewFileStore("cache")
//
// 所有实现的共同约定：
//   - key 不存在 / 条目过期 / 条目损坏 → core.ErrStoreNotFound
//   - 过期条目在读路径表现为未命中，物理删除由 PurgeExpired 完成
//   - 同 key 并发写采用 last-writer-wins（同 key 的负载语义等价）
