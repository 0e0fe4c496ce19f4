package pipeline

import (
	"context"

	"github.com/rushteam/placekit/core"
)

// Pipeline 是 placekit 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 单个类目内，Fetch 产出的上游相关性顺序沿链保持不变，
// 唯一的重排发生在 Rank 节点（打分后排序）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	qctx *core.QueryContext,
	places []*core.Place,
) ([]*core.Place, error) {
	cur := places
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, qctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
