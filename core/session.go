package core

import "time"

// 行为信号的标准 key（SessionRecord.Signals 的键）。
// 缺失的信号不参与评分——评分器只读取存在的 key，这使估计函数对任意
// 信号子集都是全函数（total），不会因缺字段失败。
const (
	SignalRating              = "rating"                // 显式评分（1-5），存在且 >0 时覆盖一切隐式信号
	SignalCompletionPercent   = "completion_percentage" // 完成度（0-100+）
	SignalDuration            = "duration"              // 实际时长（秒）
	SignalExpectedDuration    = "expected_duration"     // 期望时长（秒）
	SignalTechnicalExecution  = "technical_execution"   // 技术执行（1-5）
	SignalEnjoyment           = "enjoyment_rating"      // 愉悦度（1-5）
	SignalPerceivedDifficulty = "perceived_difficulty"  // 主观难度（1-5）
	SignalActualDifficulty    = "difficulty"            // 目录难度（1-5）
	SignalSessionRating       = "session_rating"        // 整场训练评分（1-5）
	SignalCompletionRate      = "completion_rate"       // 完成率（0-1，轻量刻度使用）
)

// SessionRecord 是一次训练中单个训练项的表现记录（摄入后不可变）。
// UserID 或 ExerciseID 为空的记录在矩阵构建阶段被静默丢弃。
type SessionRecord struct {
	UserID     string `json:"user_id"`
	ExerciseID string `json:"exercise_id"`

	// Signals 原始行为信号（key 见上方常量），缺失 key 视为中性。
	Signals map[string]float64 `json:"signals,omitempty"`

	// ObservedAt 观测时间；零值表示无时间戳（不做时间衰减）。
	ObservedAt time.Time `json:"observed_at,omitempty"`
}

// Signal 读取信号值；不存在时返回 (0, false)。
func (r *SessionRecord) Signal(key string) (float64, bool) {
	if r == nil || r.Signals == nil {
		return 0, false
	}
	v, ok := r.Signals[key]
	return v, ok
}

// Valid 判断记录是否携带可用的主体标识。
func (r *SessionRecord) Valid() bool {
	return r != nil && r.UserID != "" && r.ExerciseID != ""
}
