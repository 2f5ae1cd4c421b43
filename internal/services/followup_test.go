package services

import (
	"context"
	"strings"
	"testing"

	"alfredoptarigan/interview-coach/internal/models"
)

func TestSelectFollowUpType(t *testing.T) {
	base := models.Evaluation{RelevanceScore: 90, ConfidenceScore: 40, TechnicalDepthScore: 85, ClarityScore: 95, IsOnTopic: true}

	tests := []struct {
		name    string
		mutate  func(e *models.Evaluation)
		persona models.Persona
		want    models.FollowUpType
	}{
		{name: "default probe", mutate: func(e *models.Evaluation) {}, persona: models.PersonaNormal, want: models.FollowUpProbe},
		{name: "off topic wins over everything", mutate: func(e *models.Evaluation) { e.IsOnTopic = false; e.ConfidenceScore = 95 }, persona: models.PersonaConfused, want: models.FollowUpRedirect},
		{name: "low relevance beats confused", mutate: func(e *models.Evaluation) { e.RelevanceScore = 59 }, persona: models.PersonaConfused, want: models.FollowUpProbe},
		{name: "confused gets hint", mutate: func(e *models.Evaluation) { e.ConfidenceScore = 95 }, persona: models.PersonaConfused, want: models.FollowUpHint},
		{name: "confident gets challenge", mutate: func(e *models.Evaluation) { e.ConfidenceScore = 81; e.TechnicalDepthScore = 10 }, persona: models.PersonaEfficient, want: models.FollowUpChallenge},
		{name: "confidence at 80 is not a challenge", mutate: func(e *models.Evaluation) { e.ConfidenceScore = 80 }, persona: models.PersonaNormal, want: models.FollowUpProbe},
		{name: "shallow answer probed", mutate: func(e *models.Evaluation) { e.TechnicalDepthScore = 30 }, persona: models.PersonaChatty, want: models.FollowUpProbe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mutate(&e)
			if got := SelectFollowUpType(e, tt.persona); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDecideGate(t *testing.T) {
	gen := &stubGenerator{response: "Why?"}
	got := NewFollowUpEngine(gen, nil).Decide(context.Background(), "q", "a", models.Evaluation{IsOnTopic: true}, models.PersonaNormal)
	if got != nil {
		t.Fatalf("expected no follow-up, got %+v", got)
	}
	if gen.callCount() != 0 {
		t.Fatalf("expected no backend calls, got %d", gen.callCount())
	}
}

func TestDecideCleansGeneratedText(t *testing.T) {
	gen := &stubGenerator{response: `"Follow-up question: How did you measure the latency improvement?"`}
	eval := models.Evaluation{IsOnTopic: true, RelevanceScore: 70, ConfidenceScore: 50, TechnicalDepthScore: 40, NeedsFollowUp: true}

	got := NewFollowUpEngine(gen, nil).Decide(context.Background(), "q", "a", eval, models.PersonaNormal)
	if got == nil {
		t.Fatalf("expected follow-up")
	}
	if got.Text != "How did you measure the latency improvement?" {
		t.Fatalf("unexpected text %q", got.Text)
	}
	if got.Type != models.FollowUpProbe || got.Reason != "Seeking clarification" || got.Answer != nil {
		t.Fatalf("unexpected follow-up: %+v", got)
	}

	call := gen.lastCall()
	if call.temperature != 0.7 || call.maxTokens != 150 {
		t.Fatalf("unexpected generation params: %+v", call)
	}
	if !strings.Contains(call.prompt, "balanced and professional") {
		t.Fatalf("expected persona tone in prompt")
	}
}

func TestDecideFallsBackPerType(t *testing.T) {
	eval := models.Evaluation{IsOnTopic: false, NeedsFollowUp: true, FollowUpReason: "Drifted to hobbies"}

	got := NewFollowUpEngine(&stubGenerator{err: errBackendDown}, nil).Decide(context.Background(), "q", "a", eval, models.PersonaChatty)
	if got == nil || got.Type != models.FollowUpRedirect {
		t.Fatalf("expected redirect follow-up, got %+v", got)
	}
	if got.Text != FallbackFollowUp(models.FollowUpRedirect) {
		t.Fatalf("unexpected fallback text %q", got.Text)
	}
	if got.Reason != "Drifted to hobbies" {
		t.Fatalf("unexpected reason %q", got.Reason)
	}
}

func TestCleanFollowUpText(t *testing.T) {
	tests := map[string]string{
		"  'What trade-offs did you weigh?'  ": "What trade-offs did you weigh?",
		"Question: Why Postgres?":              "Why Postgres?",
		"Here it is: Why: Postgres?":           "Why: Postgres?",
		`""`:                                   "",
		`Follow-up: "How did you measure it?"`: "How did you measure it?",
		`"Follow-up: 'Which metric moved?'"`:   "Which metric moved?",
	}
	for in, want := range tests {
		if got := cleanFollowUpText(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}
