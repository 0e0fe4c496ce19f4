package core

// PreferenceProfile 是用户偏好画像：一次打分过程中的只读决策信号。
//
// 它不是某一个 Node，而是：
//   - 被 Rank / Filter 节点共享
//   - 驱动兼容分计算与评分下限过滤
//   - 由用户输入或特征存储（见 feast 包）构建
type PreferenceProfile struct {
	UserID string

	// MinRating 是评分下限：低于它的地点整体剔除，而不是打低分。
	MinRating float64

	// MaxPriceLevel 是可接受的最高价格档（0..4）。
	MaxPriceLevel int

	// TravelStyle 是出行风格（cultural / adventure / relaxed / family / business）。
	TravelStyle string

	// CategoryWeights 是类目偏好权重，key 为上游类目标签，value ≥ 0。
	CategoryWeights map[string]float64

	// Budget 是预算描述（economy / medium / high），仅作展示与导出。
	Budget string
}

// NewPreferenceProfile 创建一个空白画像（评分下限 3.0，价格档上限 3）。
func NewPreferenceProfile(userID string) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:          userID,
		MinRating:       3.0,
		MaxPriceLevel:   3,
		CategoryWeights: make(map[string]float64),
	}
}

// CategoryWeight 获取类目权重；类目未配置时返回 (0, false)。
func (p *PreferenceProfile) CategoryWeight(category string) (float64, bool) {
	if p.CategoryWeights == nil {
		return 0, false
	}
	w, ok := p.CategoryWeights[category]
	return w, ok
}

// SetCategoryWeight 更新类目权重。
func (p *PreferenceProfile) SetCategoryWeight(category string, weight float64) {
	if p.CategoryWeights == nil {
		p.CategoryWeights = make(map[string]float64)
	}
	p.CategoryWeights[category] = weight
}

// 出行风格常量。
const (
	StyleCultural  = "cultural"
	StyleAdventure = "adventure"
	StyleRelaxed   = "relaxed"
	StyleFamily    = "family"
	StyleBusiness  = "business"
)

// ProfileForStyle 按出行风格返回预置画像。
// 未知风格返回通用画像（tourist_attraction / restaurant 基础权重）。
func ProfileForStyle(userID, style string) *PreferenceProfile {
	p := NewPreferenceProfile(userID)
	p.TravelStyle = style

	switch style {
	case StyleCultural:
		p.MinRating = 4.0
		p.MaxPriceLevel = 4
		p.CategoryWeights = map[string]float64{
			"museum":             1.0,
			"art_gallery":        0.9,
			"tourist_attraction": 0.8,
		}
	case StyleAdventure:
		p.MinRating = 3.5
		p.MaxPriceLevel = 3
		p.CategoryWeights = map[string]float64{
			"park":               1.0,
			"tourist_attraction": 0.9,
			"natural_feature":    0.8,
		}
	case StyleRelaxed:
		p.MinRating = 4.0
		p.MaxPriceLevel = 4
		p.CategoryWeights = map[string]float64{
			"spa":        1.0,
			"park":       0.8,
			"restaurant": 0.7,
		}
	case StyleFamily:
		p.MinRating = 3.5
		p.MaxPriceLevel = 3
		p.CategoryWeights = map[string]float64{
			"park":               1.0,
			"tourist_attraction": 0.9,
			"restaurant":         0.7,
		}
	case StyleBusiness:
		p.MinRating = 4.0
		p.MaxPriceLevel = 4
		p.CategoryWeights = map[string]float64{
			"restaurant":    1.0,
			"lodging":       0.9,
			"shopping_mall": 0.6,
		}
	default:
		p.CategoryWeights = map[string]float64{
			"tourist_attraction": 0.8,
			"restaurant":         0.6,
		}
	}
	return p
}
