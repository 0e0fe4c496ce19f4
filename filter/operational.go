package filter

import (
	"context"

	"github.com/rushteam/placekit/core"
)

// OperationalFilter 过滤掉已停业的地点。
// 上游未返回营业状态的地点按正常营业处理，不会被过滤。
type OperationalFilter struct{}

func (f *OperationalFilter) Name() string {
	return "filter.operational"
}

func (f *OperationalFilter) ShouldFilter(
	_ context.Context,
	_ *core.QueryContext,
	place *core.Place,
) (bool, error) {
	if place == nil {
		return true, nil
	}
	return !place.IsOperational(), nil
}
