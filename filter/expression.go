package filter

import (
	"context"

	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/pkg/dsl"
)

// ExpressionFilter 是基于 CEL 表达式的过滤器。
// 表达式返回 true 表示保留，false 表示过滤——与配置文件里
// "写条件描述想要什么" 的直觉一致。
//
// 表达式可引用 place / profile / params 三个变量，例如：
//
//	place.has_rating && place.rating >= 4.0
//	place.open_now || "museum" in place.types
//	!place.has_price_level || place.price_level <= profile.max_price_level
type ExpressionFilter struct {
	expr *dsl.Expr
}

// NewExpressionFilter 编译表达式并创建过滤器。
// 编译在构造时一次完成，Process 阶段只做求值。
func NewExpressionFilter(src string) (*ExpressionFilter, error) {
	expr, err := dsl.Compile(src)
	if err != nil {
		return nil, err
	}
	return &ExpressionFilter{expr: expr}, nil
}

func (f *ExpressionFilter) Name() string {
	return "filter.expression"
}

func (f *ExpressionFilter) ShouldFilter(
	_ context.Context,
	qctx *core.QueryContext,
	place *core.Place,
) (bool, error) {
	if place == nil {
		return true, nil
	}
	keep, err := f.expr.Evaluate(place, qctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
