package pipeline

import (
	"context"

	"github.com/rushteam/placekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFetch       Kind = "fetch"       // 抓取阶段：从缓存/上游取候选地点
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindRank        Kind = "rank"        // 排序阶段：对候选打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：截断/去重/业务调优
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充字段或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 places -> 输出 places”的形态，方便 Fetch 生成、
// Filter 剔除、ReRank 截断重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		qctx *core.QueryContext,
		places []*core.Place,
	) ([]*core.Place, error)
}
