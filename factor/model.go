// Package factor 在交互矩阵上拟合低秩分解模型，并对任意 (用户, 训练项)
// 组合预测评分——包括训练集中未出现的组合（已知词表内的冷启动）。
package factor

import (
	"math"

	"github.com/pitchside/drillkit/interaction"
)

// DefaultFactors 是默认请求的隐因子数；实际秩还受数据规模约束。
const DefaultFactors = 50

// MaxFactors 隐因子数上限（小数据集上保持合理规模）。
const MaxFactors = 50

// neutralMean 无任何观测时的全局均值回退。
const neutralMean = 2.5

// Model 是一次拟合产出的不可变模型值。
//
// 设计要点：
//   - Fit 是纯函数：输入矩阵，返回新 Model；重训整体重建，从不原地修改
//   - 拟合后只读，并发 Predict 天然安全
//   - 数据不足（用户或训练项少于 2）不是错误：返回 Trained()==false 的
//     模型，所有预测回退到全局均值，编排层据此自动降级
type Model struct {
	trained    bool
	rank       int
	globalMean float64

	userBias     []float64
	exerciseBias []float64

	userFactors     [][]float64 // [nUsers][rank]
	exerciseFactors [][]float64 // [nExercises][rank]

	userIndex     map[string]int
	exerciseIndex map[string]int
}

// Trained 报告模型是否成功拟合。
func (m *Model) Trained() bool { return m != nil && m.trained }

// Rank 返回实际使用的隐因子数（未拟合时为 0）。
func (m *Model) Rank() int {
	if m == nil {
		return 0
	}
	return m.rank
}

// GlobalMean 返回观测评分的全局均值（无观测时为 2.5）。
func (m *Model) GlobalMean() float64 {
	if m == nil {
		return neutralMean
	}
	return m.globalMean
}

// Fit 在交互矩阵上拟合模型。
//
// 契约：
//   - 秩 k = min(requestedFactors, min(nUsers, nExercises)-1, 50)；
//     requestedFactors <= 0 时取 DefaultFactors
//   - k < 1（不足 2 个用户或 2 个训练项）时返回未拟合模型，而非错误
//   - 偏置 = 该用户/训练项的观测均值 - 全局均值；零观测者为 0
//   - 分解方法确定：相同输入矩阵重复拟合得到逐位一致的预测
func Fit(mat *interaction.Matrix, requestedFactors int) *Model {
	if requestedFactors <= 0 {
		requestedFactors = DefaultFactors
	}

	globalMean := neutralMean
	if mat != nil {
		globalMean = mat.Mean(neutralMean)
	}

	model := &Model{
		trained:    false,
		globalMean: globalMean,
	}
	if mat == nil {
		return model
	}

	nUsers := mat.NumUsers()
	nExercises := mat.NumExercises()

	k := requestedFactors
	if limit := minInt(nUsers, nExercises) - 1; limit < k {
		k = limit
	}
	if k > MaxFactors {
		k = MaxFactors
	}
	if k < 1 {
		return model
	}

	// 稠密化（未观测 cell 为 0，与截断 SVD 的稀疏语义一致）
	dense := zeros(nUsers, nExercises)
	for u := 0; u < nUsers; u++ {
		for e, v := range mat.Row(u) {
			dense[u][e] = v
		}
	}

	userFactors, exerciseFactors := truncatedSVD(dense, nUsers, nExercises, k)

	userBias := make([]float64, nUsers)
	for u := 0; u < nUsers; u++ {
		row := mat.Row(u)
		if len(row) == 0 {
			continue // 零观测：偏置取 0
		}
		var sum float64
		for _, v := range row {
			sum += v
		}
		userBias[u] = sum/float64(len(row)) - globalMean
	}

	exerciseBias := make([]float64, nExercises)
	exerciseSum := make([]float64, nExercises)
	exerciseCnt := make([]int, nExercises)
	for u := 0; u < nUsers; u++ {
		for e, v := range mat.Row(u) {
			exerciseSum[e] += v
			exerciseCnt[e]++
		}
	}
	for e := 0; e < nExercises; e++ {
		if exerciseCnt[e] == 0 {
			continue
		}
		exerciseBias[e] = exerciseSum[e]/float64(exerciseCnt[e]) - globalMean
	}

	userIndex := make(map[string]int, nUsers)
	for id, idx := range mat.UserIndex {
		userIndex[id] = idx
	}
	exerciseIndex := make(map[string]int, nExercises)
	for id, idx := range mat.ExerciseIndex {
		exerciseIndex[id] = idx
	}

	model.trained = true
	model.rank = k
	model.userBias = userBias
	model.exerciseBias = exerciseBias
	model.userFactors = userFactors
	model.exerciseFactors = exerciseFactors
	model.userIndex = userIndex
	model.exerciseIndex = exerciseIndex
	return model
}

// Predict 预测某用户对某训练项的评分，钳位到 [1.0, 5.0]。
//
//	prediction = globalMean + userBias + exerciseBias + dot(userFactors, exerciseFactors)
//
// 未知用户/训练项或未拟合模型一律返回全局均值（冷启动回退，不是错误）。
func (m *Model) Predict(userID, exerciseID string) float64 {
	if !m.Trained() {
		return m.GlobalMean()
	}

	u, okU := m.userIndex[userID]
	e, okE := m.exerciseIndex[exerciseID]
	if !okU || !okE {
		return m.globalMean
	}

	prediction := m.globalMean + m.userBias[u] + m.exerciseBias[e] +
		dot(m.userFactors[u], m.exerciseFactors[e])

	return math.Max(1.0, math.Min(5.0, prediction))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
