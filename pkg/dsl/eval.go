package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/placekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("place", cel.DynType),
		cel.Variable("profile", cel.DynType),
		cel.Variable("params", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// Expr 是地点过滤 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：place.rating >= 4.0 / place.review_count > 10
//   - 逻辑：place.price_level <= profile.max_price_level && place.rating >= 4.0
//   - 包含："museum" in place.types
//   - 参数：params.radius <= 20000
//
// 示例：
//   - `place.rating >= profile.min_rating` → 评分达到画像下限
//   - `place.open_now && place.price_level <= 2` → 营业中且价格亲民
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译一个 DSL 表达式。
// 编译结果可缓存并在多个 goroutine 上并发 Evaluate。
func Compile(src string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression %q: %w", src, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program %q: %w", src, err)
	}

	return &Expr{src: src, prg: prg}, nil
}

// Source 返回原始表达式文本。
func (e *Expr) Source() string { return e.src }

// Evaluate 对单个地点求值，返回布尔结果。
// 非布尔结果视为错误。
func (e *Expr) Evaluate(place *core.Place, qctx *core.QueryContext) (bool, error) {
	vars := map[string]any{
		"place":   placeVars(place),
		"profile": profileVars(qctx),
		"params":  paramsVars(qctx),
	}

	out, _, err := e.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("eval expression %q: %w", e.src, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to bool", e.src)
	}
	return b, nil
}

// placeVars 把 Place 展开为表达式可见的 map。
// 缺失的评分/价格档折算为 0，让表达式不必处理 null。
func placeVars(p *core.Place) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	rating := 0.0
	if p.Rating != nil {
		rating = *p.Rating
	}
	priceLevel := 0
	if p.PriceLevel != nil {
		priceLevel = *p.PriceLevel
	}
	openNow := false
	if p.OpeningHours != nil {
		openNow = p.OpeningHours.OpenNow
	}
	types := make([]any, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t)
	}
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"rating":          rating,
		"has_rating":      p.Rating != nil,
		"price_level":     priceLevel,
		"has_price_level": p.PriceLevel != nil,
		"review_count":    p.ReviewCount,
		"types":           types,
		"open_now":        openNow,
		"operational":     p.IsOperational(),
		"score":           p.Score,
	}
}

func profileVars(qctx *core.QueryContext) map[string]any {
	if qctx == nil || qctx.Profile == nil {
		return map[string]any{}
	}
	p := qctx.Profile
	return map[string]any{
		"min_rating":      p.MinRating,
		"max_price_level": p.MaxPriceLevel,
		"travel_style":    p.TravelStyle,
		"budget":          p.Budget,
	}
}

func paramsVars(qctx *core.QueryContext) map[string]any {
	if qctx == nil || qctx.Params == nil {
		return map[string]any{}
	}
	return qctx.Params
}
