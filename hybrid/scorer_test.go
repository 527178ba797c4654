package hybrid

import (
	"math"
	"strings"
	"testing"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name  string
		user  int
		item  int
		want  float64
	}{
		{"no evidence", 0, 0, 0.5},
		{"light evidence", 2, 1, 0.7},
		{"user side saturates", 6, 0, 0.8},
		{"item side saturates", 0, 2, 0.7},
		{"full evidence capped", 100, 100, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.user, tt.item)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Confidence(%d, %d) = %v, want %v", tt.user, tt.item, got, tt.want)
			}
		})
	}
}

func TestCombinePercentage(t *testing.T) {
	var s Scorer

	tests := []struct {
		name          string
		factor        float64
		content       float64
		confidence    float64
		wantHybrid    float64
		wantPct       int
	}{
		{"perfect scores full confidence", 5, 5, 1.0, 5.0, 100},
		{"worst scores full confidence", 1, 1, 1.0, 1.0, 15},
		{"neutral scores", 3, 3, 0.5, 3.0, 58},
		{"zero confidence collapses to middle", 5, 5, 0.0, 5.0, 58},
		// 混合分与百分比可以反序：低置信度压低高混合分的百分比
		{"higher hybrid low confidence", 3.8, 3.8, 0.55, 3.8, 67},
		{"lower hybrid full confidence", 3.6, 3.6, 1.0, 3.6, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Combine(tt.factor, tt.content, tt.confidence)
			if math.Abs(got.Hybrid-tt.wantHybrid) > 1e-9 {
				t.Fatalf("Hybrid = %v, want %v", got.Hybrid, tt.wantHybrid)
			}
			if got.MatchPercentage != tt.wantPct {
				t.Fatalf("MatchPercentage = %d, want %d", got.MatchPercentage, tt.wantPct)
			}
		})
	}
}

func TestCombineWeights(t *testing.T) {
	var s Scorer
	got := s.Combine(4.0, 2.0, 1.0)
	want := 0.7*4.0 + 0.3*2.0
	if math.Abs(got.Hybrid-want) > 1e-9 {
		t.Fatalf("Hybrid = %v, want %v", got.Hybrid, want)
	}
}

func TestReason(t *testing.T) {
	var s Scorer

	tests := []struct {
		name       string
		factor     float64
		content    float64
		confidence float64
		want       string
	}{
		{
			"strong collaborative signal",
			4.5, 3.0, 0.6,
			"Players with similar preferences loved this",
		},
		{
			"moderate signals stack",
			3.8, 3.8, 0.6,
			"Based on your training patterns • Aligns with your position and experience",
		},
		{
			"low confidence flags exploration",
			3.0, 3.0, 0.3,
			"New exercise worth exploring",
		},
		{
			"nothing stands out",
			3.0, 3.0, 0.6,
			"Recommended for your development",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Reason(Score{Factorization: tt.factor, Content: tt.content, Confidence: tt.confidence})
			if got != tt.want {
				t.Fatalf("Reason = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReasonCapsAtTwoClauses(t *testing.T) {
	var s Scorer
	got := s.Reason(Score{Factorization: 4.5, Content: 4.5, Confidence: 0.9})
	if n := len(strings.Split(got, " • ")); n != 2 {
		t.Fatalf("reason has %d clauses, want 2: %q", n, got)
	}
	if strings.Contains(got, "High confidence") {
		t.Fatalf("third clause should have been trimmed: %q", got)
	}
}
