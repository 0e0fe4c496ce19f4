package fetch

import (
	"context"

	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/pipeline"
	"github.com/rushteam/placekit/pkg/conv"
)

// Node 把编排器适配成 Pipeline 的 Fetch 节点：
// 从 QueryContext 读取搜索参数，产出候选地点列表。
// 输入的 places 被忽略（Fetch 是链路的源头）。
type Node struct {
	Orchestrator *Orchestrator

	// Limit 原始结果上限，≤0 时取编排器配置的默认值
	Limit int
}

func (n *Node) Name() string        { return "fetch.places" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFetch }

func (n *Node) Process(
	ctx context.Context,
	qctx *core.QueryContext,
	_ []*core.Place,
) ([]*core.Place, error) {
	return n.Orchestrator.FetchCategory(ctx, qctx.Category, ParamsFromContext(qctx), n.Limit)
}

// ParamsFromContext 从请求级参数构建 SearchParams。
// 识别的 key: query / latitude / longitude / radius / type / language。
func ParamsFromContext(qctx *core.QueryContext) core.SearchParams {
	params := core.SearchParams{}
	if qctx == nil || qctx.Params == nil {
		return params
	}
	params.Query = conv.ConfigGet[string](qctx.Params, "query", "")
	params.Location = core.Coordinates{
		Lat: conv.ConfigGetFloat64(qctx.Params, "latitude", 0),
		Lng: conv.ConfigGetFloat64(qctx.Params, "longitude", 0),
	}
	params.Radius = conv.ConfigGetInt(qctx.Params, "radius", 0)
	params.TypeFilter = conv.ConfigGet[string](qctx.Params, "type", "")
	params.Language = conv.ConfigGet[string](qctx.Params, "language", "")
	return params
}
