package factor

import "math"

// truncatedSVD 对 nRows×nCols 的稠密矩阵做截断奇异值分解，
// 返回正交的行因子 u（nRows×k）与列因子 v（nCols×k），按奇异值降序排列。
//
// 实现方式：在较小一侧构造 Gram 矩阵，做循环 Jacobi 对称特征分解，
// 另一侧因子由 A·v/σ（或 Aᵀ·u/σ）恢复。
//
// 选择 Jacobi 而非幂迭代的原因：没有随机初始化，相同输入必然得到
// 相同分解（predict 的确定性契约依赖于此）；矩阵规模在百级，代价可忽略。
func truncatedSVD(a [][]float64, nRows, nCols, k int) (u, v [][]float64) {
	u = zeros(nRows, k)
	v = zeros(nCols, k)
	if k < 1 || nRows == 0 || nCols == 0 {
		return u, v
	}

	if nRows <= nCols {
		// Gram = A·Aᵀ（nRows×nRows），特征向量即左奇异向量
		gram := make([][]float64, nRows)
		for i := 0; i < nRows; i++ {
			gram[i] = make([]float64, nRows)
		}
		for i := 0; i < nRows; i++ {
			for j := i; j < nRows; j++ {
				var s float64
				for c := 0; c < nCols; c++ {
					s += a[i][c] * a[j][c]
				}
				gram[i][j] = s
				gram[j][i] = s
			}
		}
		vals, vecs := jacobiEigen(gram)
		order := descendingOrder(vals)

		for col := 0; col < k && col < len(order); col++ {
			src := order[col]
			left := column(vecs, src)
			fixSign(left)
			sigma := math.Sqrt(math.Max(vals[src], 0))
			for i := 0; i < nRows; i++ {
				u[i][col] = left[i]
			}
			if sigma < svdTolerance {
				continue // 零奇异值：右因子留零，点积贡献为 0
			}
			// v_col = Aᵀ·u_col / σ
			for c := 0; c < nCols; c++ {
				var s float64
				for i := 0; i < nRows; i++ {
					s += a[i][c] * left[i]
				}
				v[c][col] = s / sigma
			}
		}
		return u, v
	}

	// Gram = Aᵀ·A（nCols×nCols），特征向量即右奇异向量
	gram := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		gram[i] = make([]float64, nCols)
	}
	for i := 0; i < nCols; i++ {
		for j := i; j < nCols; j++ {
			var s float64
			for r := 0; r < nRows; r++ {
				s += a[r][i] * a[r][j]
			}
			gram[i][j] = s
			gram[j][i] = s
		}
	}
	vals, vecs := jacobiEigen(gram)
	order := descendingOrder(vals)

	for col := 0; col < k && col < len(order); col++ {
		src := order[col]
		right := column(vecs, src)
		fixSign(right)
		sigma := math.Sqrt(math.Max(vals[src], 0))
		for c := 0; c < nCols; c++ {
			v[c][col] = right[c]
		}
		if sigma < svdTolerance {
			continue
		}
		// u_col = A·v_col / σ
		for r := 0; r < nRows; r++ {
			var s float64
			for c := 0; c < nCols; c++ {
				s += a[r][c] * right[c]
			}
			u[r][col] = s / sigma
		}
	}
	return u, v
}

const (
	svdTolerance = 1e-10
	jacobiEps    = 1e-12
	jacobiSweeps = 100
)

// jacobiEigen 对对称矩阵做循环 Jacobi 特征分解。
// 返回特征值与特征向量矩阵（vecs[i][j] 为第 j 个特征向量的第 i 个分量）。
// 输入矩阵会被原地修改。
func jacobiEigen(s [][]float64) (vals []float64, vecs [][]float64) {
	n := len(s)
	vecs = identity(n)

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		var off float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += s[i][j] * s[i][j]
			}
		}
		if off < jacobiEps {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(s[p][q]) < jacobiEps {
					continue
				}
				// 经典 Jacobi 旋转角
				theta := (s[q][q] - s[p][p]) / (2 * s[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				sn := t * c

				for i := 0; i < n; i++ {
					sip, siq := s[i][p], s[i][q]
					s[i][p] = c*sip - sn*siq
					s[i][q] = sn*sip + c*siq
				}
				for i := 0; i < n; i++ {
					spi, sqi := s[p][i], s[q][i]
					s[p][i] = c*spi - sn*sqi
					s[q][i] = sn*spi + c*sqi
				}
				for i := 0; i < n; i++ {
					vip, viq := vecs[i][p], vecs[i][q]
					vecs[i][p] = c*vip - sn*viq
					vecs[i][q] = sn*vip + c*viq
				}
			}
		}
	}

	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = s[i][i]
	}
	return vals, vecs
}

// descendingOrder 返回按特征值降序排列的列下标（相同值时保持低下标在前，确定性）。
func descendingOrder(vals []float64) []int {
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		max := i
		for j := i + 1; j < len(order); j++ {
			if vals[order[j]] > vals[order[max]] {
				max = j
			}
		}
		order[i], order[max] = order[max], order[i]
	}
	return order
}

// fixSign 统一特征向量符号：绝对值最大的分量为非负。
// 没有这个约定，同一矩阵的两次分解可能只差一个整体符号。
func fixSign(vec []float64) {
	maxIdx := 0
	for i := 1; i < len(vec); i++ {
		if math.Abs(vec[i]) > math.Abs(vec[maxIdx]) {
			maxIdx = i
		}
	}
	if len(vec) > 0 && vec[maxIdx] < 0 {
		for i := range vec {
			vec[i] = -vec[i]
		}
	}
}

func column(m [][]float64, j int) []float64 {
	col := make([]float64, len(m))
	for i := range m {
		col[i] = m[i][j]
	}
	return col
}

func zeros(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func identity(n int) [][]float64 {
	m := zeros(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}
