package services

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"alfredoptarigan/interview-coach/internal/models"
)

func TestAggregateScoresEmpty(t *testing.T) {
	got := AggregateScores(nil)
	want := models.ScoreBreakdown{Confidence: 50, Communication: 50, TechnicalDepth: 50, NarrativeUsage: 0, BehavioralClarity: 50, Overall: 42.5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestAggregateScoresWeights(t *testing.T) {
	evals := []models.Evaluation{
		{RelevanceScore: 90, ConfidenceScore: 40, TechnicalDepthScore: 85, ClarityScore: 95, Narrative: models.NarrativeResult{Score: 66}},
		{RelevanceScore: 70, ConfidenceScore: 61, TechnicalDepthScore: 50, ClarityScore: 70, Narrative: models.NarrativeResult{Score: 0}},
		{RelevanceScore: 80, ConfidenceScore: 80, TechnicalDepthScore: 60, ClarityScore: 66},
	}

	got := AggregateScores(evals)

	if got.Confidence != 60.33 || got.TechnicalDepth != 65 || got.Communication != 77 || got.NarrativeUsage != 22 || got.BehavioralClarity != 80 {
		t.Fatalf("unexpected averages %+v", got)
	}
	// 60.333*0.25 + 65*0.25 + 77*0.25 + 22*0.15 + 80*0.10
	if got.Overall != 61.88 {
		t.Fatalf("expected overall 61.88, got %v", got.Overall)
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		overall float64
		level   models.RecommendationLevel
		ready   bool
	}{
		{overall: 75, level: models.RecommendationStrong, ready: true},
		{overall: 74.99, level: models.RecommendationIntermediate, ready: true},
		{overall: 60, level: models.RecommendationIntermediate, ready: true},
		{overall: 59.99, level: models.RecommendationIntermediate, ready: false},
		{overall: 45, level: models.RecommendationIntermediate, ready: false},
		{overall: 44.99, level: models.RecommendationBeginner, ready: false},
	}

	for _, tt := range tests {
		level, ready := Recommendation(tt.overall)
		if level != tt.level || ready != tt.ready {
			t.Fatalf("%v: expected (%s, %v), got (%s, %v)", tt.overall, tt.level, tt.ready, level, ready)
		}
	}
}

func TestNarrativeConsistencyLabel(t *testing.T) {
	withScores := func(scores ...float64) []models.Evaluation {
		out := make([]models.Evaluation, len(scores))
		for i, s := range scores {
			out[i].Narrative.Score = s
		}
		return out
	}

	tests := []struct {
		name  string
		evals []models.Evaluation
		want  models.NarrativeConsistency
	}{
		{name: "none", evals: nil, want: models.NarrativeNotUsed},
		{name: "consistent", evals: withScores(100, 40), want: models.NarrativeConsistent},
		{name: "inconsistent", evals: withScores(40, 40), want: models.NarrativeInconsistent},
		{name: "not used", evals: withScores(39, 0), want: models.NarrativeNotUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NarrativeConsistencyLabel(tt.evals); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCommunicationStyleLabel(t *testing.T) {
	tests := []struct {
		name  string
		evals []models.Evaluation
		want  models.CommunicationStyle
	}{
		{name: "empty is terse", evals: nil, want: models.StyleTerse},
		{name: "verbose", evals: []models.Evaluation{{WordCount: 250, ClarityScore: 90}}, want: models.StyleVerbose},
		{name: "terse", evals: []models.Evaluation{{WordCount: 30, ClarityScore: 90}}, want: models.StyleTerse},
		{name: "concise", evals: []models.Evaluation{{WordCount: 120, ClarityScore: 75}}, want: models.StyleConcise},
		{name: "unclear", evals: []models.Evaluation{{WordCount: 120, ClarityScore: 74}}, want: models.StyleUnclear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommunicationStyleLabel(tt.evals); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPersonaDistribution(t *testing.T) {
	evals := []models.Evaluation{
		{Persona: models.PersonaChatty},
		{Persona: models.PersonaConfused},
		{Persona: models.PersonaChatty},
		{Persona: "bored"},
		{},
	}

	got := PersonaDistribution(evals)
	want := map[models.Persona]int{
		models.PersonaConfused:  1,
		models.PersonaEfficient: 0,
		models.PersonaChatty:    2,
		models.PersonaEdgeCase:  0,
		models.PersonaNormal:    2,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if models.DominantPersona(got) != models.PersonaChatty {
		t.Fatalf("expected chatty to dominate")
	}
}

func completedSession() *models.InterviewSession {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(18 * time.Minute)
	answer := models.NewAnswer(1, "We sharded the database by tenant id", 40, false, start)

	return &models.InterviewSession{
		ID:            "s1",
		CandidateName: "Rina",
		TargetRole:    "Backend Engineer",
		Status:        models.SessionCompleted,
		StartTime:     start,
		EndTime:       &end,
		Questions: []models.QuestionSession{
			{Question: models.Question{ID: 1, Text: "How did you scale?"}, InitialAnswer: &answer, Persona: models.PersonaNormal},
			{Question: models.Question{ID: 2, Text: "Unanswered"}},
			{Question: models.Question{ID: 3, Text: "No evaluation"}, InitialAnswer: &answer},
		},
	}
}

func TestAggregate(t *testing.T) {
	session := completedSession()
	evals := []models.Evaluation{
		{RelevanceScore: 80, ConfidenceScore: 80, TechnicalDepthScore: 80, ClarityScore: 80, WordCount: 7, Persona: models.PersonaNormal,
			Strengths: []string{"Concrete"}, Narrative: models.NarrativeResult{Score: 55, Action: models.NarrativeComponent{Present: true}}},
		{RelevanceScore: 60, ConfidenceScore: 60, TechnicalDepthScore: 60, ClarityScore: 60, Persona: models.PersonaConfused},
	}

	gen := &stubGenerator{response: `{"strengths": ["Clear"], "weaknesses": ["Shallow"], "suggestions": "Add metrics", "next_steps": ["Practice"]}`}
	agg := NewReportAggregator(gen, nil)
	fixed := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	report := agg.Aggregate(context.Background(), session, evals)

	if report.DurationMinutes != 18 {
		t.Fatalf("expected 18 minutes, got %v", report.DurationMinutes)
	}
	if len(report.QuestionEvaluations) != 1 || report.QuestionEvaluations[0].QuestionID != 1 {
		t.Fatalf("expected only the answered slot, got %+v", report.QuestionEvaluations)
	}
	if !report.QuestionEvaluations[0].Narrative.ActionPresent || report.QuestionEvaluations[0].Narrative.Score != 55 {
		t.Fatalf("unexpected narrative summary %+v", report.QuestionEvaluations[0].Narrative)
	}
	if report.ImprovementSuggestions[0] != "Add metrics" || report.RecommendedNextSteps[0] != "Practice" {
		t.Fatalf("unexpected insights %+v", report)
	}
	if report.DominantPersona != models.PersonaConfused {
		t.Fatalf("expected tie to go to confused, got %s", report.DominantPersona)
	}
	if report.NarrativeConsistency != models.NarrativeNotUsed || report.CommunicationStyle != models.StyleTerse {
		t.Fatalf("unexpected labels %s/%s", report.NarrativeConsistency, report.CommunicationStyle)
	}
	if !report.GeneratedAt.Equal(fixed) || !report.InterviewDate.Equal(session.StartTime) {
		t.Fatalf("unexpected timestamps")
	}

	prompt := gen.lastCall().prompt
	if !strings.Contains(prompt, "Q1: Relevance 80, Confidence 80, Depth 80") || !strings.Contains(prompt, "Q2: Relevance 60") {
		t.Fatalf("expected per-question summary in prompt, got %s", prompt)
	}
	if gen.lastCall().temperature != 0.7 {
		t.Fatalf("expected temperature 0.7")
	}

	if len(evals[0].Strengths) != 1 || session.Questions[0].Evaluation != nil {
		t.Fatalf("expected inputs to be untouched")
	}
}

func TestAggregateFallbackInsights(t *testing.T) {
	session := completedSession()
	session.EndTime = nil

	report := NewReportAggregator(&stubGenerator{err: errBackendDown}, nil).Aggregate(context.Background(), session, nil)

	if report.DurationMinutes != 0 {
		t.Fatalf("expected 0 duration without end time")
	}
	if !reflect.DeepEqual(report.OverallStrengths, FallbackInsights().Strengths) {
		t.Fatalf("expected fallback strengths, got %v", report.OverallStrengths)
	}
	if report.Scores.Overall != 42.5 || report.RecommendationLevel != models.RecommendationBeginner {
		t.Fatalf("unexpected empty report scores %+v", report.Scores)
	}
	if report.DominantPersona != models.PersonaConfused {
		t.Fatalf("expected first persona in order for an all-zero distribution, got %s", report.DominantPersona)
	}
}
