// Package interaction 把稀疏、含噪的训练表现记录聚合为 用户×训练项 交互矩阵，
// 供矩阵分解（factor 包）拟合使用。
package interaction

// Matrix 是稀疏的 用户×训练项 评分矩阵，附带稳定的索引双射。
//
// 约定：
//   - 索引按 ID 字典序分配（确定性），仅在一次拟合的生命周期内有效
//   - 用户/训练项词表变化后必须重建，不支持增量修改
//   - 每个已存储 cell 的值都落在 [1.0, 5.0]
type Matrix struct {
	// Users / Exercises 是 index → ID 的有序词表。
	Users     []string
	Exercises []string

	// UserIndex / ExerciseIndex 是 ID → index 的反向映射。
	UserIndex     map[string]int
	ExerciseIndex map[string]int

	// rows 是稀疏存储：userIdx → (exerciseIdx → rating)。
	rows map[int]map[int]float64

	// colCounts 每个训练项的非零观测数（置信度估计使用）。
	colCounts map[int]int

	cells int
}

// NewMatrix 按已排序的词表构建空矩阵。
func NewMatrix(users, exercises []string) *Matrix {
	m := &Matrix{
		Users:         users,
		Exercises:     exercises,
		UserIndex:     make(map[string]int, len(users)),
		ExerciseIndex: make(map[string]int, len(exercises)),
		rows:          make(map[int]map[int]float64),
		colCounts:     make(map[int]int),
	}
	for i, u := range users {
		m.UserIndex[u] = i
	}
	for i, e := range exercises {
		m.ExerciseIndex[e] = i
	}
	return m
}

// NumUsers / NumExercises 返回矩阵维度。
func (m *Matrix) NumUsers() int     { return len(m.Users) }
func (m *Matrix) NumExercises() int { return len(m.Exercises) }

// NumCells 返回非零观测数。
func (m *Matrix) NumCells() int { return m.cells }

// Set 写入一个 cell（重复写入同一 cell 只计一次观测）。
func (m *Matrix) Set(userIdx, exerciseIdx int, rating float64) {
	row, ok := m.rows[userIdx]
	if !ok {
		row = make(map[int]float64)
		m.rows[userIdx] = row
	}
	if _, exists := row[exerciseIdx]; !exists {
		m.cells++
		m.colCounts[exerciseIdx]++
	}
	row[exerciseIdx] = rating
}

// Get 读取一个 cell；不存在时返回 (0, false)。
func (m *Matrix) Get(userIdx, exerciseIdx int) (float64, bool) {
	row, ok := m.rows[userIdx]
	if !ok {
		return 0, false
	}
	v, ok := row[exerciseIdx]
	return v, ok
}

// Row 返回某用户的非零观测（exerciseIdx → rating），只读使用。
func (m *Matrix) Row(userIdx int) map[int]float64 {
	return m.rows[userIdx]
}

// UserCount 返回某用户的非零观测数；未知用户为 0。
func (m *Matrix) UserCount(userIdx int) int {
	return len(m.rows[userIdx])
}

// ExerciseCount 返回某训练项的非零观测数；未知训练项为 0。
func (m *Matrix) ExerciseCount(exerciseIdx int) int {
	return m.colCounts[exerciseIdx]
}

// UserCountByID / ExerciseCountByID 按 ID 查询观测数，未知 ID 返回 0（不报错）。
func (m *Matrix) UserCountByID(userID string) int {
	if idx, ok := m.UserIndex[userID]; ok {
		return m.UserCount(idx)
	}
	return 0
}

func (m *Matrix) ExerciseCountByID(exerciseID string) int {
	if idx, ok := m.ExerciseIndex[exerciseID]; ok {
		return m.ExerciseCount(idx)
	}
	return 0
}

// Mean 返回所有非零观测的均值；空矩阵返回 fallback。
func (m *Matrix) Mean(fallback float64) float64 {
	if m.cells == 0 {
		return fallback
	}
	var sum float64
	for _, row := range m.rows {
		for _, v := range row {
			sum += v
		}
	}
	return sum / float64(m.cells)
}
