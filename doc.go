// Package drillkit 是一个足球训练项推荐工具包（Drill Recommender Kit）。
//
// 设计要点：
// - 双策略: 矩阵分解混合打分（数据充足）与近邻协同（降级/低成本），由 engine 按数据量自动选择
// - Pipeline-first: 候选 → 过滤 → 排序 → 重排 通过 Node 串联，可配置装配
// - Labels-first: 分量得分与推荐理由全链路透传，支持 explain / 观测 / 策略驱动
// - 全函数评分: 缺失信号、冷启动、数据不足都折算为中性值或降级路径，核心不抛错
package drillkit

import "github.com/pitchside/drillkit/pipeline"

// 轻量 facade：便于用户直接 import "drillkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindCandidate   = pipeline.KindCandidate
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
