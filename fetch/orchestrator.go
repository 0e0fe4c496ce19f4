// Package fetch 实现配额感知的批量抓取编排：缓存优先、外呼封顶、
// 明细查询分组并行、组间限速、瞬时故障有界重试。
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/rushteam/placekit/cache"
	"github.com/rushteam/placekit/core"
	"github.com/rushteam/placekit/pkg/utils"
)

// Orchestrator 是单类目抓取的编排器。
//
// 核心不变量：
//   - 缓存命中时零上游调用、零限速等待
//   - 原始结果在发出上游调用时即封顶（MaxResults）
//   - 明细查询组内并行、组间固定间隔（与组耗时无关）
//   - 只有一次类目抓取完整成功后才写缓存；半途取消/失败不产生部分写入
//   - 配额耗尽不重试；瞬时故障按策略有界重试后上抛
//
// 同一个冷 key 的并发抓取可能都打到上游（缓存击穿被容忍而非防护），
// last-writer-wins，同 key 负载语义等价。
type Orchestrator struct {
	client core.SearchClient
	cache  *cache.ResultCache
	cfg    Config

	// sem 是进程级外呼信号量：跨类目共享
	sem     *semaphore.Weighted
	limiter *rate.Limiter

	// sleep 可注入，便于测试组间限速行为
	sleep func(ctx context.Context, d time.Duration) error
}

// New 创建编排器。cfg 零值字段回填默认值。
func New(client core.SearchClient, rc *cache.ResultCache, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	o := &Orchestrator{
		client: client,
		cache:  rc,
		cfg:    cfg,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		sleep:  sleepContext,
	}
	if cfg.RatePerSecond > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return o
}

// FetchCategory 抓取一个类目，返回带上游相关性顺序的地点列表。
// 失败以 QUOTA_EXCEEDED 或 UNAVAILABLE 上抛（见 core/errors.go）。
func (o *Orchestrator) FetchCategory(ctx context.Context, category string, params core.SearchParams, limit int) ([]*core.Place, error) {
	job := core.NewFetchJob(category, params)
	return o.Run(ctx, job, limit)
}

// Run 驱动一个 FetchJob 到终态。任务状态转移只发生在这里。
func (o *Orchestrator) Run(ctx context.Context, job *core.FetchJob, limit int) ([]*core.Place, error) {
	if limit <= 0 || limit > o.cfg.MaxResults {
		limit = o.cfg.MaxResults
	}
	if job.Params.Radius <= 0 {
		job.Params.Radius = o.cfg.DefaultRadius
	}

	// 1. 缓存优先：命中立即返回，不外呼、不限速
	if places, ok := o.cache.Get(ctx, job.Params); ok {
		job.State = core.JobCached
		return truncate(places, limit), nil
	}

	job.State = core.JobFetching

	// 2. 文本搜索（封顶 + 重试）
	raw, err := o.textSearch(ctx, job)
	if err != nil {
		job.State = core.JobFailed
		job.Err = err
		return nil, err
	}
	raw = truncate(raw, limit)

	// 3. 空结果不是错误：缓存空负载，TTL 内不再打上游
	if len(raw) == 0 {
		_ = o.cache.Put(ctx, job.Params, []*core.Place{})
		job.State = core.JobDone
		return []*core.Place{}, nil
	}

	// 4. 明细查询：组内并行，组间限速
	detailed, err := o.fetchDetails(ctx, raw)
	if err != nil {
		job.State = core.JobFailed
		job.Err = err
		return nil, err
	}

	// 5. 完整成功后才写缓存
	_ = o.cache.Put(ctx, job.Params, detailed)
	job.State = core.JobDone
	return detailed, nil
}

// textSearch 发出文本搜索，按策略重试瞬时故障。
func (o *Orchestrator) textSearch(ctx context.Context, job *core.FetchJob) ([]*core.Place, error) {
	policy := backoff.WithContext(o.cfg.retryPolicy(), ctx)

	places, err := backoff.RetryWithData(func() ([]*core.Place, error) {
		job.Attempts++
		var result []*core.Place
		err := o.outbound(ctx, func(ctx context.Context) error {
			var err error
			result, err = o.client.TextSearch(ctx, job.Params)
			return err
		})
		if err != nil {
			return nil, classify(err)
		}
		return result, nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("text search %q: %w", job.Params.Query, err)
	}
	return places, nil
}

// fetchDetails 补全每个地点的明细。
// 分组大小 BatchSize：组内各查询独立并行，组间等待 PaceDelay
//（最后一组之后不等待）。命中明细缓存的地点不消耗外呼配额。
func (o *Orchestrator) fetchDetails(ctx context.Context, raw []*core.Place) ([]*core.Place, error) {
	out := make([]*core.Place, len(raw))

	for start := 0; start < len(raw); start += o.cfg.BatchSize {
		end := start + o.cfg.BatchSize
		if end > len(raw) {
			end = len(raw)
		}

		eg, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			idx := i
			eg.Go(func() error {
				place, err := o.placeDetails(gctx, raw[idx])
				if err != nil {
					return err
				}
				out[idx] = place
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			// 部分失败即整组失败：不产生部分缓存写入
			return nil, err
		}

		if end < len(raw) {
			if err := o.sleep(ctx, o.cfg.PaceDelay); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// placeDetails 取单个地点明细：先查明细缓存，未命中再外呼（带重试）。
func (o *Orchestrator) placeDetails(ctx context.Context, raw *core.Place) (*core.Place, error) {
	if cached, ok := o.cache.GetDetails(ctx, raw.ID); ok {
		cached.PutLabel("fetch_source", utils.Label{Value: "detail_cache", Source: "fetch"})
		return cached, nil
	}

	policy := backoff.WithContext(o.cfg.retryPolicy(), ctx)
	place, err := backoff.RetryWithData(func() (*core.Place, error) {
		var result *core.Place
		err := o.outbound(ctx, func(ctx context.Context) error {
			var err error
			result, err = o.client.PlaceDetails(ctx, raw.ID)
			return err
		})
		if err != nil {
			return nil, classify(err)
		}
		return result, nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", raw.ID, err)
	}

	if place == nil {
		place = raw
	}
	place.PutLabel("fetch_source", utils.Label{Value: "upstream", Source: "fetch"})
	_ = o.cache.PutDetails(ctx, place)
	return place, nil
}

// outbound 包裹一次上游调用：先过进程级信号量，再过全局速率上限。
func (o *Orchestrator) outbound(ctx context.Context, call func(context.Context) error) error {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer o.sem.Release(1)

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return call(ctx)
}

// classify 把上游错误映射进重试语义：
// 配额耗尽是永久错误（本轮不再重试），其余都按瞬时故障走重试预算。
func classify(err error) error {
	if core.IsQuotaExceeded(err) {
		return backoff.Permanent(err)
	}
	return err
}

func truncate(places []*core.Place, limit int) []*core.Place {
	if limit <= 0 || len(places) <= limit {
		return places
	}
	return places[:limit]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
