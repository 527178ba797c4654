package core

// ComponentScores 是推荐结果的分项得分，用于 explain 与调试。
// Factorization 与 Content 在 1-5 刻度；Confidence 在 0-1。
type ComponentScores struct {
	Factorization float64 `json:"factorization"`
	Content       float64 `json:"content"`
	Confidence    float64 `json:"confidence"`
	Hybrid        float64 `json:"hybrid"`
}

// Recommendation 是核心对外的最终产物：每次请求新建，核心自身不持久化。
type Recommendation struct {
	ExerciseID string `json:"exercise_id"`

	// MatchPercentage 匹配度百分比，整数，始终落在 [0,100]。
	MatchPercentage int `json:"match_percentage"`

	// Scores 分项得分（因子分解 / 内容 / 置信度 / 混合）。
	Scores ComponentScores `json:"scores"`

	// Reason 简短的人类可读推荐理由（最多两个分句）。
	Reason string `json:"reason"`
}
