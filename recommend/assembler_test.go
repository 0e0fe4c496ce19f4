package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/rushteam/placekit/cache"
	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/fetch"
	"github.com/rushteam/placekit/filter"
	"github.com/rushteam/placekit/store"
)

// categoryClient 按类目返回预设结果或错误。
type categoryClient struct {
	byCategory map[string][]*core.Place
	failing    map[string]error
}

func (c *categoryClient) TextSearch(_ context.Context, params core.SearchParams) ([]*core.Place, error) {
	if err, ok := c.failing[params.TypeFilter]; ok {
		return nil, err
	}
	return c.byCategory[params.TypeFilter], nil
}

func (c *categoryClient) PlaceDetails(_ context.Context, placeID string) (*core.Place, error) {
	p := core.NewPlace(placeID)
	p.Name = placeID
	rating := 4.5
	p.Rating = &rating
	p.ReviewCount = 100
	p.Types = []string{strings.SplitN(placeID, "-", 2)[0]}
	return p, nil
}

func catPlaces(category string, n int) []*core.Place {
	places := make([]*core.Place, 0, n)
	for i := 0; i < n; i++ {
		p := core.NewPlace(category + "-" + string(rune('a'+i)))
		places = append(places, p)
	}
	return places
}

func newTestAssembler(client core.SearchClient, opts ...Option) *Assembler {
	rc := cache.New(store.NewMemoryStore())
	cfg := fetch.DefaultConfig()
	cfg.PaceDelay = 1 // 测试不等待
	return NewAssembler(fetch.New(client, rc, cfg), rc, opts...)
}

func TestAssembler_Recommend(t *testing.T) {
	client := &categoryClient{
		byCategory: map[string][]*core.Place{
			"restaurant": catPlaces("restaurant", 4),
			"museum":     catPlaces("museum", 2),
		},
	}
	asm := newTestAssembler(client)

	resp, err := asm.Recommend(context.Background(), Request{
		UserID:     "u-1",
		City:       "Kyoto",
		Categories: []string{"restaurant", "museum"},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(resp.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(resp.Categories))
	}
	// 结果顺序与请求类目顺序一致
	if resp.Categories[0].Category != "restaurant" || resp.Categories[1].Category != "museum" {
		t.Errorf("类目顺序: %s, %s", resp.Categories[0].Category, resp.Categories[1].Category)
	}

	r := resp.Categories[0]
	if r.TotalFound != 4 || r.AIFiltered != 4 || len(r.Places) != 4 {
		t.Errorf("restaurant = {total:%d filtered:%d places:%d}", r.TotalFound, r.AIFiltered, len(r.Places))
	}
	if r.FailureReason != "" {
		t.Errorf("成功类目不应有失败原因: %q", r.FailureReason)
	}
	if r.Attempts != 1 || r.FromCache {
		t.Errorf("首次抓取 = {attempts:%d fromCache:%v}, want 1/false", r.Attempts, r.FromCache)
	}
	for _, sp := range r.Places {
		if sp.AIScore <= 0 {
			t.Errorf("place %s 未打分", sp.Place.ID)
		}
	}
}

func TestAssembler_CategoryDegradesOnFailure(t *testing.T) {
	client := &categoryClient{
		byCategory: map[string][]*core.Place{
			"museum": catPlaces("museum", 2),
		},
		failing: map[string]error{
			"restaurant": core.ErrQuotaExceeded,
		},
	}
	asm := newTestAssembler(client)

	resp, err := asm.Recommend(context.Background(), Request{
		City:       "Kyoto",
		Categories: []string{"restaurant", "museum"},
	})
	if err != nil {
		t.Fatalf("单类目失败不应使整体失败: %v", err)
	}

	failed := resp.Categories[0]
	if failed.FailureReason == "" || len(failed.Places) != 0 {
		t.Errorf("失败类目应降级为空结果: %+v", failed)
	}
	// 降级结果仍携带任务观测信息（配额耗尽：一次尝试，不重试）
	if failed.Attempts != 1 {
		t.Errorf("failed.Attempts = %d, want 1", failed.Attempts)
	}

	ok := resp.Categories[1]
	if ok.FailureReason != "" || len(ok.Places) != 2 {
		t.Errorf("其他类目不应受影响: %+v", ok)
	}
}

func TestAssembler_CacheHitSurfacedInResult(t *testing.T) {
	client := &categoryClient{
		byCategory: map[string][]*core.Place{"museum": catPlaces("museum", 2)},
	}
	asm := newTestAssembler(client)

	req := Request{City: "Kyoto", Categories: []string{"museum"}}
	if _, err := asm.Recommend(context.Background(), req); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	resp, err := asm.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("second Recommend() error = %v", err)
	}

	r := resp.Categories[0]
	if !r.FromCache || r.Attempts != 0 {
		t.Errorf("缓存命中 = {attempts:%d fromCache:%v}, want 0/true", r.Attempts, r.FromCache)
	}
	if len(r.Places) != 2 {
		t.Errorf("命中结果不完整: %d", len(r.Places))
	}
}

func TestAssembler_EmptyCategoriesRejected(t *testing.T) {
	asm := newTestAssembler(&categoryClient{})
	_, err := asm.Recommend(context.Background(), Request{City: "Kyoto"})
	if err == nil {
		t.Fatal("空类目列表应报错")
	}
	domainErr := core.GetDomainError(err)
	if domainErr == nil || domainErr.Code != core.ErrorCodeInvalidInput {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestAssembler_MinScoreAndFilters(t *testing.T) {
	// 一个停业地点 + 一个正常地点
	closedID := "museum-x"
	client := &categoryClient{
		byCategory: map[string][]*core.Place{
			"museum": {core.NewPlace(closedID), core.NewPlace("museum-y")},
		},
	}

	// PlaceDetails 不返回营业状态，这里用表达式过滤模拟约束
	ef, err := filter.NewExpressionFilter(`place.id != "` + closedID + `"`)
	if err != nil {
		t.Fatalf("NewExpressionFilter() error = %v", err)
	}

	asm := newTestAssembler(client, WithFilters(ef), WithMinScore(0.3))

	places, err := asm.GetRankedPlaces(context.Background(), Request{City: "Kyoto"}, "museum")
	if err != nil {
		t.Fatalf("GetRankedPlaces() error = %v", err)
	}
	if len(places) != 1 || places[0].Place.ID != "museum-y" {
		t.Errorf("places = %+v", places)
	}
}

func TestAssembler_CacheAdmin(t *testing.T) {
	ctx := context.Background()
	client := &categoryClient{
		byCategory: map[string][]*core.Place{"museum": catPlaces("museum", 1)},
	}
	asm := newTestAssembler(client)

	if _, err := asm.GetRankedPlaces(ctx, Request{City: "Kyoto"}, "museum"); err != nil {
		t.Fatalf("GetRankedPlaces() error = %v", err)
	}

	stats := asm.CacheStats(ctx)
	if stats.EntryCount == 0 {
		t.Error("抓取后应有缓存条目")
	}

	if _, err := asm.PurgeExpiredCache(ctx); err != nil {
		t.Errorf("PurgeExpiredCache() error = %v", err)
	}

	cleared, err := asm.ClearCache(ctx)
	if err != nil || cleared == 0 {
		t.Errorf("ClearCache() = %d, %v", cleared, err)
	}
	if asm.CacheStats(ctx).EntryCount != 0 {
		t.Error("清空后条目数应为 0")
	}
}

func TestTopAcross(t *testing.T) {
	mk := func(id string, score float64, reviews int) core.ScoredPlace {
		p := core.NewPlace(id)
		p.Name = id
		p.ReviewCount = reviews
		return core.ScoredPlace{Place: p, AIScore: score}
	}

	resp := &Response{
		Categories: []CategoryResult{
			{Category: "a", Places: []core.ScoredPlace{mk("a1", 0.9, 10), mk("a2", 0.5, 10)}},
			{Category: "b", Places: []core.ScoredPlace{mk("b1", 0.7, 10), mk("b2", 0.5, 99)}},
		},
	}

	top := TopAcross(resp, 3)
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	// 0.9 > 0.7 > (0.5, 评论多者先)
	wantIDs := []string{"a1", "b1", "b2"}
	for i, want := range wantIDs {
		if top[i].Place.ID != want {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Place.ID, want)
		}
	}

	if got := TopAcross(nil, 3); got != nil {
		t.Errorf("TopAcross(nil) = %v", got)
	}
}
