package services

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/models"
)

func TestEvaluateParsesFencedResponse(t *testing.T) {
	gen := &stubGenerator{response: "Sure!\n```json\n" + `{
		"relevance_score": 130,
		"confidence_score": "72",
		"technical_depth_score": -4,
		"clarity_score": "very clear",
		"is_on_topic": false,
		"strengths": ["Concrete example"],
		"weaknesses": "No metrics",
		"feedback": "Add numbers.",
		"needs_follow_up": "true",
		"follow_up_reason": "Missing outcome"
	}` + "\n```"}

	e := NewResponseEvaluator(gen, zap.NewNop())
	got := e.Evaluate(context.Background(), "Tell me about a migration", "We moved to postgres", []string{"impact"}, models.PersonaNormal)

	if got.RelevanceScore != 100 {
		t.Fatalf("expected relevance clamped to 100, got %v", got.RelevanceScore)
	}
	if got.ConfidenceScore != 72 {
		t.Fatalf("expected confidence 72, got %v", got.ConfidenceScore)
	}
	if got.TechnicalDepthScore != 0 {
		t.Fatalf("expected depth clamped to 0, got %v", got.TechnicalDepthScore)
	}
	if got.ClarityScore != 50 {
		t.Fatalf("expected non-numeric clarity to become 50, got %v", got.ClarityScore)
	}
	if got.IsOnTopic {
		t.Fatalf("expected off-topic")
	}
	if len(got.Weaknesses) != 1 || got.Weaknesses[0] != "No metrics" {
		t.Fatalf("unexpected weaknesses: %v", got.Weaknesses)
	}
	if !got.NeedsFollowUp || got.FollowUpReason != "Missing outcome" {
		t.Fatalf("unexpected follow-up fields: %+v", got)
	}

	call := gen.lastCall()
	if call.temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", call.temperature)
	}
	if !strings.Contains(call.prompt, "impact") || !strings.Contains(call.prompt, "normal") {
		t.Fatalf("expected prompt to include expected elements and persona")
	}
}

func TestEvaluateDefaultsMissingFields(t *testing.T) {
	e := NewResponseEvaluator(&stubGenerator{response: `{"relevance_score": 80}`}, nil)
	got := e.Evaluate(context.Background(), "q", "a", nil, models.PersonaChatty)

	if got.RelevanceScore != 80 {
		t.Fatalf("expected 80, got %v", got.RelevanceScore)
	}
	for name, score := range map[string]float64{
		"confidence": got.ConfidenceScore,
		"depth":      got.TechnicalDepthScore,
		"clarity":    got.ClarityScore,
	} {
		if score != 50 {
			t.Fatalf("expected default 50 for %s, got %v", name, score)
		}
	}
	if !got.IsOnTopic || got.NeedsFollowUp {
		t.Fatalf("unexpected boolean defaults: %+v", got)
	}
	if got.Feedback != "Response received." {
		t.Fatalf("unexpected feedback %q", got.Feedback)
	}
	if got.Strengths == nil || len(got.Strengths) != 0 {
		t.Fatalf("expected empty strengths, got %v", got.Strengths)
	}
}

func TestEvaluateFallbacks(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{name: "backend error", gen: &stubGenerator{err: errBackendDown}},
		{name: "prose", gen: &stubGenerator{response: "The answer was fine."}},
		{name: "array", gen: &stubGenerator{response: "[1,2,3]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResponseEvaluator(tt.gen, nil).Evaluate(context.Background(), "q", "a", nil, models.PersonaNormal)
			want := FallbackEvaluation()

			if got.RelevanceScore != 50 || got.ClarityScore != 50 || !got.IsOnTopic || got.NeedsFollowUp {
				t.Fatalf("unexpected fallback: %+v", got)
			}
			if got.Feedback != want.Feedback || got.Strengths[0] != "Response provided" {
				t.Fatalf("unexpected fallback text: %+v", got)
			}
		})
	}
}

func TestScoresAlwaysInRange(t *testing.T) {
	inputs := []any{-1e9, 1e9, "NaN", "Inf", "12abc", true, nil, []any{1}, 55.5}
	for _, in := range inputs {
		got := NormalizeEvaluation(map[string]any{"relevance_score": in})
		if got.RelevanceScore < 0 || got.RelevanceScore > 100 {
			t.Fatalf("score %v out of range for input %v", got.RelevanceScore, in)
		}
	}
}

func TestOverallScore(t *testing.T) {
	e := models.Evaluation{RelevanceScore: 90, ConfidenceScore: 40, TechnicalDepthScore: 85, ClarityScore: 95}
	if got := OverallScore(e); got != 77.5 {
		t.Fatalf("expected 77.5, got %v", got)
	}
}
