// Package hybrid 把因子分解预测、内容评分与证据置信度融合为
// 有界的匹配百分比与简短推荐理由。
package hybrid

import "math"

// 置信度估计的参数：基线 0.5，用户侧最多 +0.3，训练项侧最多 +0.2。
const (
	baseConfidence      = 0.5
	userConfidenceCap   = 0.3
	userConfidenceScale = 20.0
	itemConfidenceCap   = 0.2
	itemConfidenceScale = 10.0
)

// Confidence 根据交互证据量估计一次预测的置信度，落在 [0, 1]。
//
// userInteractions / exerciseInteractions 是交互矩阵中该行/该列的非零观测数；
// 未知用户或训练项按 0 处理（该项贡献 0，不是错误）。
func Confidence(userInteractions, exerciseInteractions int) float64 {
	confidence := baseConfidence
	if userInteractions > 0 {
		confidence += math.Min(userConfidenceCap, float64(userInteractions)/userConfidenceScale)
	}
	if exerciseInteractions > 0 {
		confidence += math.Min(itemConfidenceCap, float64(exerciseInteractions)/itemConfidenceScale)
	}
	return math.Min(1.0, confidence)
}
