// Package placekit 是一个地点推荐工具包（Place Kit）：
// 配额感知的结果缓存、批量抓取编排与偏好打分。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Fetch → Filter → Rank → ReRank → PostProcess）
// - Cache-first: 上游调用只在缓存未命中时发生，命中消耗零配额
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展
package placekit

import "github.com/rushteam/placekit/pipeline"

// 轻量 facade：便于用户直接 import "placekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFetch       = pipeline.KindFetch
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
