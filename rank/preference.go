// Package rank 提供基于用户偏好画像的排序节点。
//
// 与传统推荐系统里的模型排序不同，这里的打分是确定性的加权规则：
// 对同一 (Place, Profile) 输入永远产出同一分数，便于缓存与解释。
package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/pipeline"
	"github.com/rushteam/placekit/pkg/utils"
)

// 四个子分的固定权重，总和为 1。
const (
	weightRating     = 0.4
	weightPrice      = 0.2
	weightPopularity = 0.2
	weightCategory   = 0.2
)

// popularityPivot 是人气子分的饱和点：评论数达到 100 即记满分。
const popularityPivot = 100

// 推荐理由文案，按优先级从高到低排列，最多取 maxReasons 条。
const (
	reasonHighRating     = "high rating"
	reasonBudgetFriendly = "budget friendly"
	reasonWellReviewed   = "well reviewed"
	reasonOpenNow        = "open now"

	maxReasons = 3
)

// Scorer 是偏好兼容度打分器。
// 分数落在 [0,1]，由评分、价格、人气、类目四个子分加权得出。
// Scorer 无内部状态，零值可用。
type Scorer struct{}

// Score 对单个地点计算偏好兼容分。
// 返回 ok=false 表示地点被硬性门槛排除（评分低于 Profile.MinRating），
// 此时 ScoredPlace 为零值，调用方不应使用。
//
// 子分规则：
//   - 评分：rating/5；缺失记 0（不排除，只是不得分）
//   - 价格：tier <= MaxPriceLevel 或缺失记 1；超档每档扣 0.25，下限 0
//   - 人气：min(1, log1p(n)/log1p(100))
//   - 类目：画像权重在 place.Types 上的最大值；无任何命中记 0.1
func (s Scorer) Score(place *core.Place, profile *core.PreferenceProfile) (core.ScoredPlace, bool) {
	if place == nil {
		return core.ScoredPlace{}, false
	}
	if profile == nil {
		profile = core.NewPreferenceProfile("")
	}

	// 硬性门槛：有评分且低于最低要求的直接排除。
	// 缺失评分的地点不排除——新收录地点没有评分是常态。
	if place.Rating != nil && *place.Rating < profile.MinRating {
		return core.ScoredPlace{}, false
	}

	ratingScore := 0.0
	if place.Rating != nil {
		ratingScore = *place.Rating / 5.0
	}

	priceScore := 1.0
	priceFit := true
	if place.PriceLevel != nil && *place.PriceLevel > profile.MaxPriceLevel {
		over := float64(*place.PriceLevel - profile.MaxPriceLevel)
		priceScore = math.Max(0, 1-0.25*over)
		priceFit = false
	}

	popularityScore := math.Min(1, math.Log1p(float64(place.ReviewCount))/math.Log1p(popularityPivot))

	categoryScore := categoryAffinity(place, profile)

	score := weightRating*ratingScore +
		weightPrice*priceScore +
		weightPopularity*popularityScore +
		weightCategory*categoryScore

	return core.ScoredPlace{
		Place:        place,
		AIScore:      score,
		MatchReasons: matchReasons(place, priceFit),
	}, true
}

// categoryAffinity 取画像类目权重在地点标签上的最大命中值。
// 一个地点往往带多个标签（restaurant + cafe），取最大而不是平均，
// 避免弱相关标签稀释强偏好。无任何命中时给 0.1 保底，
// 让画像之外的类目仍有机会进入长尾。
func categoryAffinity(place *core.Place, profile *core.PreferenceProfile) float64 {
	best := 0.0
	hit := false
	for _, t := range place.Types {
		if w, ok := profile.CategoryWeights[t]; ok {
			hit = true
			if w > best {
				best = w
			}
		}
	}
	if !hit {
		return 0.1
	}
	return best
}

// matchReasons 生成推荐理由，按固定优先级取前 maxReasons 条。
func matchReasons(place *core.Place, priceFit bool) []string {
	reasons := make([]string, 0, maxReasons)
	if place.Rating != nil && *place.Rating >= 4.0 {
		reasons = append(reasons, reasonHighRating)
	}
	if priceFit && place.PriceLevel != nil && *place.PriceLevel <= 2 {
		reasons = append(reasons, reasonBudgetFriendly)
	}
	if place.ReviewCount >= 10 {
		reasons = append(reasons, reasonWellReviewed)
	}
	if place.OpeningHours != nil && place.OpeningHours.OpenNow {
		reasons = append(reasons, reasonOpenNow)
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(reasons) == 0 {
		return nil
	}
	return reasons
}

// PreferenceNode 是偏好排序节点：打分、过滤、稳定排序。
//
// 排序键从高到低：分数降序 → 评论数降序 → 名称升序。
// 后两级保证分数相同时输出顺序依然稳定可复现。
type PreferenceNode struct {
	Scorer Scorer

	// MinScore 是最低分门槛，低于该分的地点被过滤掉。
	// 0 表示不启用门槛。
	MinScore float64
}

func (n *PreferenceNode) Name() string        { return "rank.preference" }
func (n *PreferenceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *PreferenceNode) Process(
	_ context.Context,
	qctx *core.QueryContext,
	places []*core.Place,
) ([]*core.Place, error) {
	if len(places) == 0 {
		return places, nil
	}

	profile := qctx.GetProfile()

	kept := make([]*core.Place, 0, len(places))
	for _, p := range places {
		scored, ok := n.Scorer.Score(p, profile)
		if !ok {
			continue
		}
		if n.MinScore > 0 && scored.AIScore < n.MinScore {
			continue
		}
		p.Score = scored.AIScore
		p.MatchReasons = scored.MatchReasons
		p.PutLabel("rank_type", utils.Label{Value: "preference", Source: "rank"})
		kept = append(kept, p)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		if kept[i].ReviewCount != kept[j].ReviewCount {
			return kept[i].ReviewCount > kept[j].ReviewCount
		}
		return kept[i].Name < kept[j].Name
	})

	return kept, nil
}
