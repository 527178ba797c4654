package interaction

import (
	"math"
	"testing"
	"time"

	"github.com/pitchside/drillkit/core"
)

func rec(user, exercise string, signals map[string]float64, at time.Time) core.SessionRecord {
	return core.SessionRecord{
		UserID:     user,
		ExerciseID: exercise,
		Signals:    signals,
		ObservedAt: at,
	}
}

func TestBuilder_EmptyInput(t *testing.T) {
	b := &Builder{}
	m := b.Build(nil)
	if m.NumUsers() != 0 || m.NumExercises() != 0 {
		t.Errorf("empty input: got %dx%d matrix, want 0x0", m.NumUsers(), m.NumExercises())
	}
	if m.NumCells() != 0 {
		t.Errorf("empty input: got %d cells", m.NumCells())
	}
	if got := m.Mean(2.5); got != 2.5 {
		t.Errorf("Mean fallback = %v, want 2.5", got)
	}
}

func TestBuilder_DropsRecordsWithoutIdentity(t *testing.T) {
	now := time.Now()
	b := &Builder{Now: now}
	m := b.Build([]core.SessionRecord{
		rec("", "e1", map[string]float64{core.SignalRating: 4}, now),
		rec("u1", "", map[string]float64{core.SignalRating: 4}, now),
		rec("u1", "e1", map[string]float64{core.SignalRating: 4}, now),
	})
	if m.NumUsers() != 1 || m.NumExercises() != 1 {
		t.Fatalf("got %dx%d matrix, want 1x1", m.NumUsers(), m.NumExercises())
	}
	if v, ok := m.Get(0, 0); !ok || math.Abs(v-4.0) > 1e-9 {
		t.Errorf("cell = %v (%v), want 4.0", v, ok)
	}
}

func TestBuilder_DeterministicSortedIndices(t *testing.T) {
	now := time.Now()
	b := &Builder{Now: now}
	m := b.Build([]core.SessionRecord{
		rec("zoe", "shooting", map[string]float64{core.SignalRating: 3}, now),
		rec("amy", "dribbling", map[string]float64{core.SignalRating: 3}, now),
		rec("mia", "passing", map[string]float64{core.SignalRating: 3}, now),
	})

	wantUsers := []string{"amy", "mia", "zoe"}
	for i, u := range wantUsers {
		if m.Users[i] != u {
			t.Errorf("Users[%d] = %q, want %q", i, m.Users[i], u)
		}
	}
	wantExercises := []string{"dribbling", "passing", "shooting"}
	for i, e := range wantExercises {
		if m.Exercises[i] != e {
			t.Errorf("Exercises[%d] = %q, want %q", i, m.Exercises[i], e)
		}
	}
}

func TestBuilder_TemporalDecay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := &Builder{Now: now}

	fresh := b.Build([]core.SessionRecord{
		rec("u1", "e1", map[string]float64{core.SignalRating: 4}, now),
	})
	stale := b.Build([]core.SessionRecord{
		rec("u1", "e1", map[string]float64{core.SignalRating: 4}, now.AddDate(0, 0, -30)),
	})

	freshV, _ := fresh.Get(0, 0)
	staleV, _ := stale.Get(0, 0)
	if staleV >= freshV {
		t.Errorf("stale rating %v should decay below fresh %v", staleV, freshV)
	}
	// 30 天衰减约为 e^-1
	want := math.Max(1.0, 4.0*math.Exp(-1))
	if math.Abs(staleV-want) > 1e-6 {
		t.Errorf("stale rating = %v, want %v", staleV, want)
	}
}

func TestBuilder_NoTimestampNoDecay(t *testing.T) {
	b := &Builder{Now: time.Now()}
	m := b.Build([]core.SessionRecord{
		rec("u1", "e1", map[string]float64{core.SignalRating: 4}, time.Time{}),
	})
	if v, _ := m.Get(0, 0); math.Abs(v-4.0) > 1e-9 {
		t.Errorf("timestamp-less rating = %v, want undecayed 4.0", v)
	}
}

func TestBuilder_RecencyWeightedAggregation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := &Builder{Now: now}

	// 同一 (用户, 训练项)：旧观测 2 分、新观测 5 分。
	// recency 加权应使聚合值高于普通平均 3.5（偏向新观测）。
	m := b.Build([]core.SessionRecord{
		rec("u1", "e1", map[string]float64{core.SignalRating: 2}, now.Add(-2*time.Hour)),
		rec("u1", "e1", map[string]float64{core.SignalRating: 5}, now.Add(-1*time.Hour)),
	})

	v, ok := m.Get(0, 0)
	if !ok {
		t.Fatal("missing aggregated cell")
	}
	if v <= 3.5 {
		t.Errorf("aggregated rating = %v, want > plain mean 3.5", v)
	}
	if m.NumCells() != 1 {
		t.Errorf("NumCells = %d, want 1 (pair aggregated)", m.NumCells())
	}
}

func TestBuilder_CellsStayInRange(t *testing.T) {
	now := time.Now()
	b := &Builder{Now: now}
	m := b.Build([]core.SessionRecord{
		// 一年前的观测：衰减后远小于 1，必须钳回 1.0
		rec("u1", "e1", map[string]float64{core.SignalRating: 5}, now.AddDate(-1, 0, 0)),
		rec("u2", "e1", map[string]float64{core.SignalRating: 5}, now),
	})
	for u := 0; u < m.NumUsers(); u++ {
		for e, v := range m.Row(u) {
			if v < 1.0 || v > 5.0 {
				t.Errorf("cell (%d,%d) = %v, out of [1,5]", u, e, v)
			}
		}
	}
}

func TestMatrix_Counts(t *testing.T) {
	now := time.Now()
	b := &Builder{Now: now}
	m := b.Build([]core.SessionRecord{
		rec("u1", "e1", map[string]float64{core.SignalRating: 4}, now),
		rec("u1", "e2", map[string]float64{core.SignalRating: 3}, now),
		rec("u2", "e1", map[string]float64{core.SignalRating: 2}, now),
	})

	if got := m.UserCountByID("u1"); got != 2 {
		t.Errorf("UserCountByID(u1) = %d, want 2", got)
	}
	if got := m.ExerciseCountByID("e1"); got != 2 {
		t.Errorf("ExerciseCountByID(e1) = %d, want 2", got)
	}
	if got := m.UserCountByID("missing"); got != 0 {
		t.Errorf("UserCountByID(missing) = %d, want 0", got)
	}
	if got := m.ExerciseCountByID("missing"); got != 0 {
		t.Errorf("ExerciseCountByID(missing) = %d, want 0", got)
	}
}
