package lightweight

import "github.com/pitchside/drillkit/core"

// foundationalExercises 是冷启动兜底列表：对任何没有历史、
// 也找不到近邻的用户，按固定顺序给出基础训练项。
var foundationalExercises = []string{"Ball Control", "Passing Accuracy", "Endurance Run"}

// FoundationalDefaults 返回兜底推荐，匹配度从 85% 起每条递减 5，
// 置信度从 0.8 起每条递减 0.1。每次调用返回新切片，可安全修改。
func FoundationalDefaults() []core.Recommendation {
	out := make([]core.Recommendation, 0, len(foundationalExercises))
	for i, name := range foundationalExercises {
		out = append(out, core.Recommendation{
			ExerciseID:      name,
			MatchPercentage: 85 - i*5,
			Scores:          core.ComponentScores{Confidence: 0.8 - float64(i)*0.1},
			Reason:          "Foundational skill for all players",
		})
	}
	return out
}
