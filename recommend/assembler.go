// Package recommend 是装配层：把抓取、限量、过滤、打分串成
// 面向调用方的推荐接口，并提供缓存运维入口。
package recommend

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/placekit/cache"
	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/fetch"
	"github.com/rushteam/placekit/filter"
	"github.com/rushteam/placekit/pipeline"
	"github.com/rushteam/placekit/rank"
	"github.com/rushteam/placekit/rerank"
)

// Request 是一次多类目推荐请求。
type Request struct {
	// UserID 用户标识，用于画像归属
	UserID string

	// City 目标城市，参与检索词构造
	City string

	// Location 城市中心坐标，作为地理检索圆心
	Location core.Coordinates

	// Categories 要推荐的类目列表（restaurant / museum / ...）
	Categories []string

	// Profile 用户偏好画像；nil 时使用默认画像
	Profile *core.PreferenceProfile

	// Limit 每个类目返回的地点数量上限；0 使用抓取层默认值
	Limit int

	// Language 上游返回内容的语言偏好（可选）
	Language string
}

// CategoryResult 是单个类目的推荐结果。
// 上游失败时类目降级：Places 为空且 FailureReason 非空，
// 其他类目不受影响。
type CategoryResult struct {
	Category string `json:"category"`

	// TotalFound 是去重限量后、偏好过滤前的候选数
	TotalFound int `json:"total_found"`

	// AIFiltered 是通过偏好门槛并完成打分的地点数
	AIFiltered int `json:"ai_filtered"`

	Places []core.ScoredPlace `json:"places"`

	// FromCache 表示候选来自缓存命中，本类目未消耗上游配额
	FromCache bool `json:"from_cache,omitempty"`

	// Attempts 是上游搜索的尝试次数（含重试；缓存命中为 0）
	Attempts int `json:"attempts,omitempty"`

	// FailureReason 非空表示该类目降级，内容为失败原因
	FailureReason string `json:"failure_reason,omitempty"`
}

// Response 是一次推荐请求的完整结果，类目顺序与请求一致。
type Response struct {
	City       string           `json:"city"`
	Categories []CategoryResult `json:"categories"`
}

// Assembler 把抓取编排器和排序节点装配成完整的推荐链路。
// 并发安全：可被多个 goroutine 同时调用。
type Assembler struct {
	orch  *fetch.Orchestrator
	cache *cache.ResultCache

	// limitNode / rankNode 无状态，所有请求共享
	limitNode *rerank.LimitNode
	rankNode  *rank.PreferenceNode

	// filters 是可选的前置过滤器（停业过滤、表达式过滤等）
	filters *filter.FilterNode

	radius int
}

// Option 配置 Assembler。
type Option func(*Assembler)

// WithFilters 设置前置过滤器，在打分之前执行。
func WithFilters(filters ...filter.Filter) Option {
	return func(a *Assembler) {
		a.filters = &filter.FilterNode{Filters: filters}
	}
}

// WithMinScore 设置偏好分的最低门槛，低于该分的地点被过滤。
func WithMinScore(min float64) Option {
	return func(a *Assembler) {
		a.rankNode.MinScore = min
	}
}

// WithRadius 设置地理检索半径（米），覆盖抓取层默认值。
func WithRadius(radius int) Option {
	return func(a *Assembler) {
		a.radius = radius
	}
}

// DefaultMinScore 是偏好分门槛的默认值。
const DefaultMinScore = 0.3

// NewAssembler 创建推荐装配器。
func NewAssembler(orch *fetch.Orchestrator, rc *cache.ResultCache, opts ...Option) *Assembler {
	a := &Assembler{
		orch:      orch,
		cache:     rc,
		limitNode: &rerank.LimitNode{},
		rankNode:  &rank.PreferenceNode{MinScore: DefaultMinScore},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recommend 并发处理所有类目并装配结果。
// 单个类目失败不影响整体：失败类目降级为空结果并携带原因，
// 只有 ctx 取消会让整个请求提前返回。
func (a *Assembler) Recommend(ctx context.Context, req Request) (*Response, error) {
	if len(req.Categories) == 0 {
		return nil, &core.DomainError{
			Module:  core.ModuleSearch,
			Code:    core.ErrorCodeInvalidInput,
			Message: "categories are required",
		}
	}

	profile := req.Profile
	if profile == nil {
		profile = core.NewPreferenceProfile(req.UserID)
	}

	results := make([]CategoryResult, len(req.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range req.Categories {
		i, category := i, category
		g.Go(func() error {
			res, err := a.category(gctx, req, profile, category)
			if err != nil {
				// 类目降级：保留失败原因与尝试次数，不向上传播
				res.Places = nil
				res.FailureReason = err.Error()
				results[i] = res
				return gctx.Err()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Response{City: req.City, Categories: results}, nil
}

// GetRankedPlaces 处理单个类目：抓取、去重限量、过滤、打分排序。
// 这是 Recommend 的单类目形式，供只需要一个类目的调用方使用。
func (a *Assembler) GetRankedPlaces(
	ctx context.Context,
	req Request,
	category string,
) ([]core.ScoredPlace, error) {
	profile := req.Profile
	if profile == nil {
		profile = core.NewPreferenceProfile(req.UserID)
	}
	res, err := a.category(ctx, req, profile, category)
	if err != nil {
		return nil, err
	}
	return res.Places, nil
}

// category 处理单个类目。抓取任务在这里创建（每类目一个），
// 状态转移交给编排器驱动；任务的尝试次数与缓存命中随结果导出。
func (a *Assembler) category(
	ctx context.Context,
	req Request,
	profile *core.PreferenceProfile,
	category string,
) (CategoryResult, error) {
	params := core.SearchParams{
		Query:      searchQuery(category, req.City),
		Location:   req.Location,
		Radius:     a.radius,
		TypeFilter: placeType(category),
		Language:   req.Language,
	}

	job := core.NewFetchJob(category, params)
	result := CategoryResult{Category: category}

	places, err := a.orch.Run(ctx, job, req.Limit)
	result.Attempts = job.Attempts
	result.FromCache = job.State == core.JobCached
	if err != nil {
		return result, err
	}

	qctx := &core.QueryContext{
		UserID:   req.UserID,
		City:     req.City,
		Category: category,
		Profile:  profile,
	}

	// 去重限量（抓取层已截断到上限，这里兜底去重）
	places, err = a.limitNode.Process(ctx, qctx, places)
	if err != nil {
		return result, err
	}

	if a.filters != nil {
		places, err = a.filters.Process(ctx, qctx, places)
		if err != nil {
			return result, err
		}
	}

	result.TotalFound = len(places)

	ranked, err := a.rankNode.Process(ctx, qctx, places)
	if err != nil {
		return result, err
	}

	scored := make([]core.ScoredPlace, 0, len(ranked))
	for _, p := range ranked {
		scored = append(scored, core.ScoredPlace{
			Place:        p,
			AIScore:      p.Score,
			MatchReasons: p.MatchReasons,
		})
	}

	result.AIFiltered = len(scored)
	result.Places = scored
	return result, nil
}

// tourismTypes 把面向用户的类目名映射为上游检索的地点类型。
// 不在表内的类目视为已经是合法的地点类型，原样透传。
var tourismTypes = map[string]string{
	"restaurants": "restaurant",
	"hotels":      "lodging",
	"attractions": "tourist_attraction",
	"museums":     "museum",
	"parks":       "park",
	"shopping":    "shopping_mall",
	"nightlife":   "night_club",
}

func placeType(category string) string {
	if t, ok := tourismTypes[category]; ok {
		return t
	}
	return category
}

// searchQuery 构造上游检索词。类目和城市共同决定检索词，
// 保证同城同类目的请求命中同一缓存键。
func searchQuery(category, city string) string {
	if city == "" {
		return fmt.Sprintf("best %s", category)
	}
	return fmt.Sprintf("best %s in %s", category, city)
}

// Pipeline 把装配链路导出为标准 pipeline，供需要自定义
// 节点编排的调用方复用（例如在打分前插入额外过滤节点）。
func (a *Assembler) Pipeline(limit int) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&fetch.Node{Orchestrator: a.orch, Limit: limit},
		a.limitNode,
	}
	if a.filters != nil {
		nodes = append(nodes, a.filters)
	}
	nodes = append(nodes, a.rankNode)
	return &pipeline.Pipeline{Nodes: nodes}
}

// TopAcross 把多个类目的结果合并成一个跨类目榜单。
// 排序键与类目内一致：分数降序、评论数降序、名称升序。
func TopAcross(resp *Response, n int) []core.ScoredPlace {
	if resp == nil {
		return nil
	}
	var all []core.ScoredPlace
	for _, cr := range resp.Categories {
		all = append(all, cr.Places...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].AIScore != all[j].AIScore {
			return all[i].AIScore > all[j].AIScore
		}
		if all[i].Place.ReviewCount != all[j].Place.ReviewCount {
			return all[i].Place.ReviewCount > all[j].Place.ReviewCount
		}
		return all[i].Place.Name < all[j].Place.Name
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
