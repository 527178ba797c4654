package core

// Exercise 是训练项（drill）的目录元数据：内容侧评分与过滤的只读输入。
// 缺失的元数据不是错误——各评分器对 nil Exercise 回退到中性分。
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	// SkillType 技能类别，例如 "Dribbling" / "Passing" / "Shooting"。
	// 轻量引擎按此维度聚合球员偏好。
	SkillType string `json:"skill_type,omitempty"`

	// Difficulty 难度等级（1-5 的整数刻度）。
	Difficulty int `json:"difficulty,omitempty"`

	// Description 描述文本；位置与目标的匹配在其上做子串命中。
	Description string `json:"description,omitempty"`

	// Equipment 所需器材列表（空表示无需器材）。
	Equipment []string `json:"equipment,omitempty"`

	// ExpectedDuration 期望时长（秒），0 表示未知。
	ExpectedDuration float64 `json:"expected_duration,omitempty"`
}

// MetaExercise 是 Item.Meta 中携带目录元数据的键。
const MetaExercise = "exercise"

// ExerciseOf 从 Item.Meta 取出目录元数据，没有则返回 nil。
func ExerciseOf(it *Item) *Exercise {
	if it == nil || it.Meta == nil {
		return nil
	}
	if ex, ok := it.Meta[MetaExercise].(*Exercise); ok {
		return ex
	}
	return nil
}
