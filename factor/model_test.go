package factor

import (
	"math"
	"testing"
	"time"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/interaction"
)

func buildMatrix(t *testing.T, cells map[string]map[string]float64) *interaction.Matrix {
	t.Helper()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var records []core.SessionRecord
	for user, row := range cells {
		for exercise, ratingVal := range row {
			records = append(records, core.SessionRecord{
				UserID:     user,
				ExerciseID: exercise,
				Signals:    map[string]float64{core.SignalRating: ratingVal},
				ObservedAt: now,
			})
		}
	}
	b := &interaction.Builder{Now: now}
	return b.Build(records)
}

func TestFit_InsufficientData(t *testing.T) {
	tests := []struct {
		name  string
		cells map[string]map[string]float64
	}{
		{name: "empty matrix", cells: map[string]map[string]float64{}},
		{name: "single user", cells: map[string]map[string]float64{
			"u1": {"e1": 4, "e2": 3},
		}},
		{name: "single exercise", cells: map[string]map[string]float64{
			"u1": {"e1": 4},
			"u2": {"e1": 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Fit(buildMatrix(t, tt.cells), 10)
			if model.Trained() {
				t.Errorf("Fit() trained, want untrained (k < 1)")
			}
			// 未拟合模型的一切预测都回退到全局均值
			if got := model.Predict("u1", "e1"); math.Abs(got-model.GlobalMean()) > 1e-9 {
				t.Errorf("untrained Predict = %v, want global mean %v", got, model.GlobalMean())
			}
		})
	}
}

func TestFit_NilMatrix(t *testing.T) {
	model := Fit(nil, 10)
	if model.Trained() {
		t.Error("Fit(nil) trained, want untrained")
	}
	if got := model.Predict("u", "e"); got != 2.5 {
		t.Errorf("Predict = %v, want neutral 2.5", got)
	}
}

func TestFit_RankBounds(t *testing.T) {
	cells := map[string]map[string]float64{
		"u1": {"e1": 5, "e2": 3, "e3": 4},
		"u2": {"e1": 4, "e2": 2, "e3": 5},
		"u3": {"e1": 3, "e2": 5, "e3": 2},
	}
	model := Fit(buildMatrix(t, cells), 50)
	if !model.Trained() {
		t.Fatal("Fit() untrained, want trained")
	}
	// k = min(50, min(3,3)-1) = 2
	if model.Rank() != 2 {
		t.Errorf("Rank = %d, want 2", model.Rank())
	}
}

func TestPredict_InRangeAndKnownPairs(t *testing.T) {
	cells := map[string]map[string]float64{
		"u1": {"e1": 5, "e2": 1},
		"u2": {"e1": 5, "e2": 1},
		"u3": {"e1": 1, "e2": 5},
	}
	model := Fit(buildMatrix(t, cells), 10)
	if !model.Trained() {
		t.Fatal("Fit() untrained")
	}

	for _, user := range []string{"u1", "u2", "u3"} {
		for _, exercise := range []string{"e1", "e2"} {
			got := model.Predict(user, exercise)
			if got < 1.0 || got > 5.0 {
				t.Errorf("Predict(%s,%s) = %v, out of [1,5]", user, exercise, got)
			}
		}
	}

	// u1 与 u2 同好：u1 对 e1 的预测应明显高于对 e2
	if model.Predict("u1", "e1") <= model.Predict("u1", "e2") {
		t.Errorf("Predict(u1,e1)=%v should exceed Predict(u1,e2)=%v",
			model.Predict("u1", "e1"), model.Predict("u1", "e2"))
	}
}

func TestPredict_ColdStartFallsBackToGlobalMean(t *testing.T) {
	cells := map[string]map[string]float64{
		"u1": {"e1": 5, "e2": 3},
		"u2": {"e1": 4, "e2": 2},
	}
	model := Fit(buildMatrix(t, cells), 10)
	if !model.Trained() {
		t.Fatal("Fit() untrained")
	}

	mean := model.GlobalMean()
	if got := model.Predict("stranger", "e1"); math.Abs(got-mean) > 1e-9 {
		t.Errorf("unknown user Predict = %v, want global mean %v", got, mean)
	}
	if got := model.Predict("u1", "unknown_drill"); math.Abs(got-mean) > 1e-9 {
		t.Errorf("unknown exercise Predict = %v, want global mean %v", got, mean)
	}
}

func TestFit_Deterministic(t *testing.T) {
	cells := map[string]map[string]float64{
		"u1": {"e1": 5, "e2": 2, "e3": 4},
		"u2": {"e1": 4, "e2": 1, "e4": 5},
		"u3": {"e2": 5, "e3": 2, "e4": 3},
		"u4": {"e1": 3, "e3": 4, "e4": 4},
	}

	m1 := Fit(buildMatrix(t, cells), 3)
	m2 := Fit(buildMatrix(t, cells), 3)
	if !m1.Trained() || !m2.Trained() {
		t.Fatal("models untrained")
	}

	for _, user := range []string{"u1", "u2", "u3", "u4"} {
		for _, exercise := range []string{"e1", "e2", "e3", "e4"} {
			p1 := m1.Predict(user, exercise)
			p2 := m2.Predict(user, exercise)
			if math.Abs(p1-p2) > 1e-12 {
				t.Errorf("Predict(%s,%s) differs across refits: %v vs %v", user, exercise, p1, p2)
			}
		}
	}
}

func TestTruncatedSVD_ReconstructsRankOneMatrix(t *testing.T) {
	// 秩 1 矩阵：a = 外积 [1,2,3]ᵀ·[2,1]
	a := [][]float64{
		{2, 1},
		{4, 2},
		{6, 3},
	}
	u, v := truncatedSVD(a, 3, 2, 1)

	// 左右因子均应为单位向量
	var normU, normV float64
	for i := 0; i < 3; i++ {
		normU += u[i][0] * u[i][0]
	}
	for i := 0; i < 2; i++ {
		normV += v[i][0] * v[i][0]
	}
	if math.Abs(normU-1) > 1e-6 {
		t.Errorf("|u| = %v, want 1", math.Sqrt(normU))
	}
	if math.Abs(normV-1) > 1e-6 {
		t.Errorf("|v| = %v, want 1", math.Sqrt(normV))
	}

	// 方向与 [1,2,3]/√14 成比例
	ratio := u[1][0] / u[0][0]
	if math.Abs(ratio-2) > 1e-6 {
		t.Errorf("u direction ratio = %v, want 2", ratio)
	}
}
