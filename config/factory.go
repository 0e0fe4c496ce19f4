package config

import (
	"github.com/rushteam/placekit/fetch"
	"github.com/rushteam/placekit/pipeline"
	"github.com/rushteam/placekit/pkg/conv"
)

// RegisterFetch 把抓取节点注册到全局注册表。
//
// fetch.places 依赖运行期对象（编排器持有上游客户端和缓存），
// 无法纯靠配置构建，所以不在 builders 的 init 注册表里，
// 由调用方在组装好编排器之后显式绑定：
//
//	orch := fetch.New(client, resultCache, fetch.DefaultConfig())
//	config.RegisterFetch(orch)
//	factory := config.DefaultFactory()
//
// 配置中的 limit 字段控制该节点的返回上限（0 使用编排器默认值）。
func RegisterFetch(orch *fetch.Orchestrator) {
	Register("fetch.places", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &fetch.Node{
			Orchestrator: orch,
			Limit:        conv.ConfigGetInt(cfg, "limit", 0),
		}, nil
	})
}
