package feast

import (
	"context"
	"strings"

	"github.com/rushteam/placekit/core"
)

// 画像特征名称。特征视图 user_stats 存放画像标量，
// category_affinity 存放类目权重（特征名即类目名）。
const (
	FeatureMinRating     = "user_stats:min_rating"
	FeatureMaxPriceLevel = "user_stats:max_price_level"
	FeatureTravelStyle   = "user_stats:travel_style"

	categoryAffinityView = "category_affinity"
)

// ProfileLoader 从 Feature Store 加载用户偏好画像。
//
// 特征缺失时逐字段回落到默认值：新用户没有任何特征也能拿到
// 可用画像（MinRating 3.0 / MaxPriceLevel 3）。
type ProfileLoader struct {
	client  Client
	project string

	// Categories 需要加载类目权重的类目列表（可选）。
	// 每个类目对应特征 "category_affinity:<category>"。
	Categories []string
}

// NewProfileLoader 创建画像加载器。
func NewProfileLoader(client Client, project string) *ProfileLoader {
	return &ProfileLoader{client: client, project: project}
}

// Load 加载用户画像。Feature Store 不可用时返回错误，
// 调用方可用 LoadOrDefault 做降级。
func (l *ProfileLoader) Load(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	features := []string{
		FeatureMinRating,
		FeatureMaxPriceLevel,
		FeatureTravelStyle,
	}
	for _, c := range l.Categories {
		features = append(features, categoryAffinityView+":"+c)
	}

	resp, err := l.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]interface{}{{"user_id": userID}},
		Project:    l.project,
	})
	if err != nil {
		return nil, &core.DomainError{
			Module:  core.ModuleProfile,
			Code:    core.ErrorCodeUnavailable,
			Message: "load profile: " + err.Error(),
		}
	}
	if len(resp.FeatureVectors) == 0 {
		return core.NewPreferenceProfile(userID), nil
	}

	return profileFromFeatures(userID, resp.FeatureVectors[0].Values), nil
}

// LoadOrDefault 加载用户画像，失败时静默回落到默认画像。
// 画像是推荐质量的增强项而不是可用性的依赖项。
func (l *ProfileLoader) LoadOrDefault(ctx context.Context, userID string) *core.PreferenceProfile {
	profile, err := l.Load(ctx, userID)
	if err != nil {
		return core.NewPreferenceProfile(userID)
	}
	return profile
}

// profileFromFeatures 把特征向量映射为画像。
// 有 travel_style 时先套用风格预设，再用显式特征逐项覆盖。
func profileFromFeatures(userID string, values map[string]interface{}) *core.PreferenceProfile {
	profile := core.NewPreferenceProfile(userID)

	if style, ok := values[FeatureTravelStyle].(string); ok && style != "" {
		profile = core.ProfileForStyle(userID, style)
	}
	if v, ok := values[FeatureMinRating].(float64); ok && v > 0 {
		profile.MinRating = v
	}
	if v, ok := values[FeatureMaxPriceLevel].(float64); ok && v > 0 {
		profile.MaxPriceLevel = int(v)
	}

	for name, v := range values {
		category, ok := strings.CutPrefix(name, categoryAffinityView+":")
		if !ok {
			continue
		}
		if w, ok := v.(float64); ok && w > 0 {
			profile.SetCategoryWeight(category, w)
		}
	}

	return profile
}
