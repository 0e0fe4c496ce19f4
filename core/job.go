package core

// JobState 是 FetchJob 的生命周期状态。
type JobState string

const (
	JobPending  JobState = "pending"  // 已创建，尚未开始
	JobCached   JobState = "cached"   // 命中缓存，未发出上游调用
	JobFetching JobState = "fetching" // 上游抓取进行中
	JobDone     JobState = "done"     // 终态：成功
	JobFailed   JobState = "failed"   // 终态：失败
)

// Terminal 判断状态是否为终态。
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed || s == JobCached
}

// FetchJob 是一次类目抓取的生命周期记录。
// 由 RecommendationAssembler 按类目创建，状态转移只由
// BatchFetchOrchestrator 驱动：
//
//	pending → cached                （缓存命中）
//	pending → fetching → done       （上游抓取成功）
//	pending → fetching → failed     （重试预算耗尽 / 配额耗尽）
type FetchJob struct {
	Category string
	Params   SearchParams
	State    JobState
	Attempts int   // 已发出的上游搜索尝试次数
	Err      error // State == failed 时的失败原因
}

// NewFetchJob 创建一个处于 pending 状态的抓取任务。
func NewFetchJob(category string, params SearchParams) *FetchJob {
	return &FetchJob{
		Category: category,
		Params:   params,
		State:    JobPending,
	}
}
