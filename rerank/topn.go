package rerank

import (
	"context"

	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/pipeline"
)

// LimitNode 是结果限量节点：按 ID 去重后截断到固定上限。
// 这是廉价的体积控制，与个性化无关——不打分、不重排，
// 上游相关性顺序原样保留（重复 ID 只保留首次出现）。
//
// 使用场景：
//   - 抓取之后、打分之前，把候选控制在单类目上限内
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &fetch.Node{Orchestrator: orch}, // 抓取
//	        &rerank.LimitNode{N: 8},         // 去重 + 截断
//	        &rank.PreferenceNode{},          // 打分排序
//	    },
//	}
type LimitNode struct {
	// N 要保留的地点数量上限
	// 如果 N <= 0，则只去重，不截断
	N int
}

func (n *LimitNode) Name() string        { return "rerank.topn" }
func (n *LimitNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *LimitNode) Process(
	_ context.Context,
	_ *core.QueryContext,
	places []*core.Place,
) ([]*core.Place, error) {
	deduped := dedupByID(places)

	// 如果 N <= 0 或数量已在上限内，不截断
	if n.N <= 0 || len(deduped) <= n.N {
		return deduped, nil
	}
	return deduped[:n.N], nil
}

// dedupByID 按 ID 去重，保留第一个出现的，顺序不变。
func dedupByID(places []*core.Place) []*core.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]*core.Place, 0, len(places))
	for _, p := range places {
		if p == nil {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
