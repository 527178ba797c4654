package rating

import (
	"math"

	"github.com/pitchside/drillkit/core"
)

// 0.1-1.0 轻量刻度的固定权重与参考时长。
const (
	sessionCompletionWeight = 0.4
	sessionDurationWeight   = 0.3
	sessionTechnicalWeight  = 0.3

	// idealDurationMinutes 时长归一化的参考值：30 分钟记满分。
	idealDurationMinutes = 30.0
)

// EstimateSessionScore 将一条记录折算为 0.1-1.0 的轻量表现分
// （轻量引擎的余弦路径使用，刻度与 EstimateImplicit 不同，不可混用）。
//
// 固定加权：0.4×完成率 + 0.3×归一化时长 + 0.3×(技术执行/5)，下限钳到 0.1。
// 完成率缺失按 0.5、技术执行缺失按 3 处理（中性默认）。
func EstimateSessionScore(rec *core.SessionRecord) float64 {
	completionRate := 0.5
	if v, ok := rec.Signal(core.SignalCompletionRate); ok {
		completionRate = v
	} else if pct, ok := rec.Signal(core.SignalCompletionPercent); ok {
		completionRate = pct / 100.0
	}

	var durationMinutes float64
	if v, ok := rec.Signal(core.SignalDuration); ok && v > 0 {
		durationMinutes = v / 60.0
	}
	durationScore := math.Min(durationMinutes/idealDurationMinutes, 1.0)

	technical := 3.0
	if v, ok := rec.Signal(core.SignalTechnicalExecution); ok && v > 0 {
		technical = v
	}

	score := completionRate*sessionCompletionWeight +
		durationScore*sessionDurationWeight +
		(technical/5.0)*sessionTechnicalWeight

	return clamp(score, 0.1, 1.0)
}
