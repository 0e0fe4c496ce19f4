// Package builders 通过 init 注册内置 Node 的配置构建逻辑。
// 使用配置驱动时以空白导入触发注册：
//
//	import _ "github.com/rushteam/placekit/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/placekit/config"
	"github.com/rushteam/placekit/filter"
	"github.com/rushteam/placekit/pipeline"
	"github.com/rushteam/placekit/pkg/conv"
	"github.com/rushteam/placekit/rank"
	"github.com/rushteam/placekit/rerank"
)

func init() {
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rank.preference", BuildPreferenceNode)
	config.Register("filter", BuildFilterNode)
}

// BuildTopNNode 构建限量节点。配置：
//
//	type: rerank.topn
//	config:
//	  n: 8
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.LimitNode{
		N: conv.ConfigGetInt(cfg, "n", 0),
	}, nil
}

// BuildPreferenceNode 构建偏好排序节点。配置：
//
//	type: rank.preference
//	config:
//	  min_score: 0.3
func BuildPreferenceNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.PreferenceNode{
		MinScore: conv.ConfigGetFloat64(cfg, "min_score", 0),
	}, nil
}

// BuildFilterNode 构建组合过滤节点。配置：
//
//	type: filter
//	config:
//	  filters:
//	    - type: operational
//	    - type: expression
//	      expr: 'place.has_rating && place.rating >= 4.0'
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "operational":
			filters = append(filters, &filter.OperationalFilter{})
		case "expression":
			src := conv.ConfigGet(filterMap, "expr", "")
			if src == "" {
				return nil, fmt.Errorf("expression filter requires expr")
			}
			ef, err := filter.NewExpressionFilter(src)
			if err != nil {
				return nil, fmt.Errorf("compile expr: %w", err)
			}
			filters = append(filters, ef)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}
