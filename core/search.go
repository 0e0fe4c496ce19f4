package core

import "context"

// SearchParams 是一次文本搜索的全部参数。
// 逻辑上等价的两组参数必须生成同一个缓存键（见 cache.KeyBuilder）。
type SearchParams struct {
	Query      string      // 搜索文本
	Location   Coordinates // 搜索中心
	Radius     int         // 搜索半径（米）
	TypeFilter string      // 上游类目过滤（restaurant / lodging / ...），可为空
	Language   string      // 结果语言，可为空
}

// SearchClient 是外部地点搜索 API 的领域接口。
// 鉴权、传输、限频语义由实现方负责；核心链路只消费这两个操作：
//
//   - TextSearch 返回带上游相关性顺序的原始地点列表
//   - PlaceDetails 返回单个地点的完整明细（评分、营业时间、照片等）
//
// 两者都可能以 QUOTA_EXCEEDED 或 UNAVAILABLE 失败（见 core/errors.go），
// 核心不解释其他上游语义。
type SearchClient interface {
	TextSearch(ctx context.Context, params SearchParams) ([]*Place, error)
	PlaceDetails(ctx context.Context, placeID string) (*Place, error)
}

// Search 错误定义
var (
	// ErrQuotaExceeded 表示上游配额耗尽：本次编排内不可重试，
	// 调用方应在更长的时间维度上退避。
	ErrQuotaExceeded = NewDomainError(ModuleSearch, ErrorCodeQuotaExceeded, "search: upstream quota exceeded")

	// ErrUpstreamUnavailable 表示上游瞬时不可用：本地有限重试后再向上传播。
	ErrUpstreamUnavailable = NewDomainError(ModuleSearch, ErrorCodeUnavailable, "search: upstream unavailable")
)
