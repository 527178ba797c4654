package filter

import (
	"context"
	"testing"

	"github.com/pitchside/drillkit/core"
)

func candidate(id string, ex *core.Exercise) *core.Item {
	it := core.NewItem(id)
	if ex != nil {
		it.Meta[core.MetaExercise] = ex
	}
	return it
}

func TestPracticedFilter(t *testing.T) {
	f := &PracticedFilter{Practiced: map[string]bool{"dribbling": true}}

	got, err := f.ShouldFilter(context.Background(), nil, candidate("dribbling", nil))
	if err != nil || !got {
		t.Fatalf("practiced exercise should be filtered, got %v err %v", got, err)
	}
	got, err = f.ShouldFilter(context.Background(), nil, candidate("shooting", nil))
	if err != nil || got {
		t.Fatalf("fresh exercise should pass, got %v err %v", got, err)
	}
}

func TestEquipmentFilter(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID: "amy",
		User:   &core.UserProfile{UserID: "amy", Equipment: []string{"ball", "cones"}},
	}
	f := &EquipmentFilter{}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"equipment available", candidate("a", &core.Exercise{ID: "a", Equipment: []string{"ball"}}), false},
		{"equipment missing", candidate("b", &core.Exercise{ID: "b", Equipment: []string{"agility ladder"}}), true},
		{"no equipment needed", candidate("c", &core.Exercise{ID: "c"}), false},
		{"no catalog metadata", candidate("d", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEquipmentFilterNoProfile(t *testing.T) {
	f := &EquipmentFilter{}
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: "amy"},
		candidate("a", &core.Exercise{ID: "a", Equipment: []string{"rebounder"}}))
	if err != nil || got {
		t.Fatalf("missing profile must not filter, got %v err %v", got, err)
	}
}

func TestRuleFilter(t *testing.T) {
	f := &RuleFilter{Expr: `exercise.difficulty <= 3`}

	easy := candidate("easy", &core.Exercise{ID: "easy", Difficulty: 2})
	hard := candidate("hard", &core.Exercise{ID: "hard", Difficulty: 5})

	got, err := f.ShouldFilter(context.Background(), nil, easy)
	if err != nil || got {
		t.Fatalf("rule should keep easy drill, got %v err %v", got, err)
	}
	got, err = f.ShouldFilter(context.Background(), nil, hard)
	if err != nil || !got {
		t.Fatalf("rule should drop hard drill, got %v err %v", got, err)
	}
}

func TestRuleFilterBadExpression(t *testing.T) {
	f := &RuleFilter{Expr: `exercise.difficulty +`}
	got, err := f.ShouldFilter(context.Background(), nil, candidate("a", &core.Exercise{ID: "a"}))
	if err == nil {
		t.Fatal("broken expression should report an error")
	}
	if got {
		t.Fatal("broken expression must not filter")
	}
}

func TestFilterNodeComposition(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "amy"}
	node := &FilterNode{Filters: []Filter{
		&PracticedFilter{Practiced: map[string]bool{"done": true}},
		&RuleFilter{Expr: `exercise.difficulty <= 3`},
	}}

	items := []*core.Item{
		candidate("done", &core.Exercise{ID: "done", Difficulty: 1}),
		candidate("keep", &core.Exercise{ID: "keep", Difficulty: 2}),
		candidate("hard", &core.Exercise{ID: "hard", Difficulty: 4}),
		nil,
	}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("Process kept %+v, want only 'keep'", out)
	}
}

func TestFilterNodePassThrough(t *testing.T) {
	node := &FilterNode{}
	items := []*core.Item{candidate("a", nil)}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("no filters should pass everything, got %d", len(out))
	}
}
