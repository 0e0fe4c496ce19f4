package core

import "github.com/rushteam/placekit/pkg/utils"

// Coordinates 是地理坐标（WGS84 经纬度）。
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review 是上游返回的单条评论摘要（最多保留 3 条）。
type Review struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}

// OpeningHours 是营业时间摘要。
type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// 上游营业状态常量。
const (
	BusinessStatusOperational = "OPERATIONAL"
	BusinessStatusClosedTemp  = "CLOSED_TEMPORARILY"
	BusinessStatusClosedPerm  = "CLOSED_PERMANENTLY"
)

// Place 是推荐链路中的统一承载结构：上游数据、分数、标签。
// 一次缓存生命周期内，上游字段视为不可变；Score / MatchReasons / Labels
// 由链路节点写入，用于排序决策与解释。
//
// Rating 与 PriceLevel 使用指针区分"缺失"与"为零"：
// 上游对新收录地点可能不返回评分，价格档 0（免费）又是合法取值。
type Place struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
	Location         Coordinates  `json:"location"`
	Rating           *float64     `json:"rating,omitempty"`      // [0,5]，nil 表示缺失
	PriceLevel       *int         `json:"price_level,omitempty"` // {0..4}，nil 表示缺失
	ReviewCount      int          `json:"review_count"`
	Types            []string     `json:"types,omitempty"` // 类目标签（restaurant / museum / ...）
	BusinessStatus   string       `json:"business_status,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	PhotoRefs        []string     `json:"photo_refs,omitempty"` // 最多 5 条照片引用
	Phone            string       `json:"phone,omitempty"`
	Website          string       `json:"website,omitempty"`
	Reviews          []Review     `json:"reviews,omitempty"`

	// 链路态（不参与缓存负载的语义等价性判断）
	Score        float64                `json:"score,omitempty"`
	MatchReasons []string               `json:"match_reasons,omitempty"`
	Labels       map[string]utils.Label `json:"labels,omitempty"`
}

// NewPlace 创建一个新的 Place。
func NewPlace(id string) *Place {
	return &Place{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (p *Place) PutLabel(key string, lbl utils.Label) {
	if p.Labels == nil {
		p.Labels = make(map[string]utils.Label)
	}
	if old, ok := p.Labels[key]; ok {
		p.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	p.Labels[key] = lbl
}

// HasType 检查 Place 是否带有某个类目标签。
func (p *Place) HasType(t string) bool {
	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}
	return false
}

// IsOperational 检查营业状态是否为正常营业。
// 上游未返回营业状态时按正常营业处理。
func (p *Place) IsOperational() bool {
	return p.BusinessStatus == "" || p.BusinessStatus == BusinessStatusOperational
}

// ScoredPlace 是打分后的导出视图：{Place, ai_score, match_reasons}。
// 由 PreferenceScorer 的调用方持有，生成后不再修改。
type ScoredPlace struct {
	Place        *Place   `json:"place"`
	AIScore      float64  `json:"ai_score"` // 偏好兼容分，[0,1]
	MatchReasons []string `json:"match_reasons,omitempty"`
}
