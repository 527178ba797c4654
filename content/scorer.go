// Package content 提供与交互矩阵无关的内容侧评分：
// 球员画像（位置/目标/经验）对训练项元数据（描述/难度）的匹配度。
// 既作为混合评分的信号之一，也是冷启动时唯一可用的信号。
package content

import (
	"strings"

	"github.com/pitchside/drillkit/core"
)

// 1-5 内容刻度的调整项权重。
// 注意：轻量引擎的内容路径（lightweight 包）使用 0-1 量级的另一套刻度，
// 两者不可互换，换用必须显式换算。
const (
	neutralScore = 2.5

	positionBonus        = 0.5 // 位置 token 命中描述文本
	goalBonus            = 0.3 // 每个目标命中描述文本
	difficultyFitBonus   = 0.4 // |难度 - 期望| <= 1
	difficultyGapPenalty = 0.3 // |难度 - 期望| > 2
)

// Scorer 是内容侧评分器（1-5 刻度）。纯函数式、无状态，零值可用。
type Scorer struct{}

// Score 评估训练项对球员画像的内容匹配度，钳位到 [1.0, 5.0]。
// 画像或元数据缺失不是错误：回退到中性 2.5。
func (s *Scorer) Score(profile *core.UserProfile, exercise *core.Exercise) float64 {
	if profile == nil || exercise == nil {
		return neutralScore
	}

	score := neutralScore
	description := strings.ToLower(exercise.Description)

	// 位置匹配
	if position := strings.ToLower(strings.TrimSpace(profile.Position)); position != "" {
		if strings.Contains(description, position) {
			score += positionBonus
		}
	}

	// 目标命中
	for _, goal := range profile.Goals {
		goal = strings.ToLower(strings.TrimSpace(goal))
		if goal != "" && strings.Contains(description, goal) {
			score += goalBonus
		}
	}

	// 经验-难度对齐
	if exercise.Difficulty > 0 {
		gap := exercise.Difficulty - profile.ExpectedDifficulty()
		if gap < 0 {
			gap = -gap
		}
		switch {
		case gap <= 1:
			score += difficultyFitBonus
		case gap > 2:
			score -= difficultyGapPenalty
		}
	}

	if score < 1.0 {
		return 1.0
	}
	if score > 5.0 {
		return 5.0
	}
	return score
}
