package fetch

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// 配置默认值。
const (
	// DefaultMaxResults 是单类目原始结果的系统级上限。
	// 在发出上游调用时就生效（限制外呼成本），而不只是事后截断。
	DefaultMaxResults = 8

	// DefaultBatchSize 是明细查询的分组大小：组内并行，组间限速。
	DefaultBatchSize = 3

	// DefaultPaceDelay 是组与组之间的固定间隔，与组耗时无关。
	DefaultPaceDelay = 100 * time.Millisecond

	// DefaultMaxRetries 是瞬时故障的额外重试次数（配额耗尽不重试）。
	DefaultMaxRetries = 2

	// DefaultMaxConcurrent 是进程级并发外呼上限：
	// 无论多少类目并行抓取，同时在途的上游调用不超过它。
	DefaultMaxConcurrent = 6

	// DefaultRadius 是搜索半径缺省值（米）。
	DefaultRadius = 20000
)

// Config 是编排器的不可变配置：命名字段 + 文档化默认值，构造时注入。
// 零值字段在 New 时回填默认值。
type Config struct {
	// MaxResults 单类目原始结果上限（默认 8）
	MaxResults int

	// BatchSize 明细查询分组大小（默认 3）
	BatchSize int

	// PaceDelay 组间固定间隔（默认 100ms），同时也是重试的退避间隔
	PaceDelay time.Duration

	// MaxRetries 瞬时故障的额外重试次数（默认 2）
	MaxRetries int

	// MaxConcurrent 进程级并发外呼上限（默认 6）
	MaxConcurrent int64

	// DefaultRadius 搜索半径缺省值，米（默认 20000）
	DefaultRadius int

	// RatePerSecond 上游调用的全局速率上限（次/秒），0 表示不启用
	RatePerSecond float64

	// NewRetryPolicy 覆盖默认重试策略（以数据而非控制流表达，便于独立测试）。
	// 为 nil 时使用 常数间隔 PaceDelay × 最多 MaxRetries 次重试。
	NewRetryPolicy func() backoff.BackOff
}

// withDefaults 回填零值字段。
func (c Config) withDefaults() Config {
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.PaceDelay <= 0 {
		c.PaceDelay = DefaultPaceDelay
	}
	if c.MaxRetries <= 0 {
		// 0 视为未设置；完全禁用重试通过 NewRetryPolicy 注入 StopBackOff
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.DefaultRadius <= 0 {
		c.DefaultRadius = DefaultRadius
	}
	return c
}

// DefaultConfig 返回全默认配置。
func DefaultConfig() Config {
	return Config{
		MaxResults:    DefaultMaxResults,
		BatchSize:     DefaultBatchSize,
		PaceDelay:     DefaultPaceDelay,
		MaxRetries:    DefaultMaxRetries,
		MaxConcurrent: DefaultMaxConcurrent,
		DefaultRadius: DefaultRadius,
	}
}

// retryPolicy 按配置构造一次抓取使用的重试策略。
func (c Config) retryPolicy() backoff.BackOff {
	if c.NewRetryPolicy != nil {
		return c.NewRetryPolicy()
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(c.PaceDelay), uint64(c.MaxRetries))
}
