// Package rating 把单条训练表现记录折算为数值评分。
//
// 这里存在两个互不混用的刻度：
//   - ImplicitRating：1.0-5.0，矩阵分解路径使用（EstimateImplicit）
//   - SessionScore：0.1-1.0，轻量引擎的余弦路径使用（EstimateSessionScore）
//
// 两者语义不同、权重语义不同，任何混用都必须显式换算。
package rating

import (
	"math"

	"github.com/pitchside/drillkit/core"
)

// 1-5 隐式评分的调整项权重。
const (
	neutralRating = 2.5

	completionFullBonus    = 1.0 // 完成度 >= 100
	completionHighBonus    = 0.5 // 完成度 >= 80
	completionLowPenalty   = 0.5 // 完成度 < 50
	durationOnPaceBonus    = 0.3 // 实际/期望时长落在 [0.8, 1.2]
	durationOverrunPenalty = 0.2 // 实际/期望时长 > 1.5
	technicalWeight        = 0.3 // (technical - 3) 的缩放
	enjoymentWeight        = 0.2 // (enjoyment - 3) 的缩放
	challengeBonus         = 0.2 // 难度差落在 [-1, 0]：恰到好处
	tooEasyPenalty         = 0.3 // 难度差 < -2：过于简单
	tooHardPenalty         = 0.4 // 难度差 > 2：过难
	sessionRatingWeight    = 0.1 // (session_rating - 3) 的缩放
)

// EstimateImplicit 将一条记录的原始信号折算为 1.0-5.0 的隐式评分。
//
// 规则：
//  1. 存在显式评分（rating > 0）时直接钳位返回——显式反馈永远覆盖隐式信号
//  2. 否则从中性 2.5 出发做加性调整（各信号缺失时不产生贡献）
//  3. 结果钳位到 [1.0, 5.0]
//
// 该函数是纯函数且对任意信号子集都是全函数：不会失败、不会 panic。
func EstimateImplicit(rec *core.SessionRecord) float64 {
	if explicit, ok := rec.Signal(core.SignalRating); ok && explicit > 0 {
		return clamp(explicit, 1.0, 5.0)
	}

	score := neutralRating

	if completion, ok := rec.Signal(core.SignalCompletionPercent); ok {
		switch {
		case completion >= 100:
			score += completionFullBonus
		case completion >= 80:
			score += completionHighBonus
		case completion < 50:
			score -= completionLowPenalty
		}
	}

	if duration, ok := rec.Signal(core.SignalDuration); ok && duration > 0 {
		// 期望时长缺失时按“恰好符合预期”处理（ratio = 1）
		expected := duration
		if e, ok := rec.Signal(core.SignalExpectedDuration); ok && e > 0 {
			expected = e
		}
		ratio := duration / math.Max(expected, 1)
		switch {
		case ratio >= 0.8 && ratio <= 1.2:
			score += durationOnPaceBonus
		case ratio > 1.5:
			score -= durationOverrunPenalty
		}
	}

	if technical, ok := rec.Signal(core.SignalTechnicalExecution); ok && technical > 0 {
		score += (technical - 3.0) * technicalWeight
	}

	if enjoyment, ok := rec.Signal(core.SignalEnjoyment); ok && enjoyment > 0 {
		score += (enjoyment - 3.0) * enjoymentWeight
	}

	if perceived, ok := rec.Signal(core.SignalPerceivedDifficulty); ok && perceived > 0 {
		actual := 3.0
		if a, ok := rec.Signal(core.SignalActualDifficulty); ok && a > 0 {
			actual = a
		}
		delta := actual - perceived
		switch {
		case delta >= -1 && delta <= 0:
			score += challengeBonus // 恰到好处的挑战
		case delta < -2:
			score -= tooEasyPenalty
		case delta > 2:
			score -= tooHardPenalty
		}
	}

	if session, ok := rec.Signal(core.SignalSessionRating); ok && session > 0 {
		score += (session - 3.0) * sessionRatingWeight
	}

	return clamp(score, 1.0, 5.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
