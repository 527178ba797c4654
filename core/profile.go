package core

import "strings"

// 经验等级取值（与内容评分的期望难度映射对应）。
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// UserProfile 是球员画像：内容侧评分的只读输入。
//
// 维度与作用：
//  维度              作用
//  Position          位置匹配（描述文本命中）
//  ExperienceLevel   经验-难度对齐
//  Goals             训练目标命中（描述文本子串）
//  Age               年龄段策略（预留）
//  Equipment         器材可用性过滤
type UserProfile struct {
	UserID string `json:"user_id"`

	Position        string   `json:"position,omitempty"`         // 场上位置：striker / midfielder / defender / goalkeeper ...
	ExperienceLevel string   `json:"experience_level,omitempty"` // beginner / intermediate / advanced
	Goals           []string `json:"goals,omitempty"`            // 训练目标，例如 {"ball control", "finishing"}
	Age             int      `json:"age,omitempty"`

	// Equipment 球员可用器材（用于 filter.EquipmentFilter，空表示不限制）。
	Equipment []string `json:"equipment,omitempty"`
}

// ExpectedDifficulty 将经验等级映射为期望的训练难度。
// beginner→2、intermediate→3、advanced→4，未知等级按中级处理。
func (p *UserProfile) ExpectedDifficulty() int {
	if p == nil {
		return 3
	}
	switch strings.ToLower(p.ExperienceLevel) {
	case ExperienceBeginner:
		return 2
	case ExperienceAdvanced:
		return 4
	default:
		return 3
	}
}

// HasEquipment 判断画像是否具备某件器材。Equipment 为空视为全部可用。
func (p *UserProfile) HasEquipment(name string) bool {
	if p == nil || len(p.Equipment) == 0 {
		return true
	}
	for _, e := range p.Equipment {
		if strings.EqualFold(e, name) {
			return true
		}
	}
	return false
}
