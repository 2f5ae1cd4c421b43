package services

import (
	"context"
	"strings"
	"testing"

	"alfredoptarigan/interview-coach/internal/models"
)

func sampleResume() models.ResumeData {
	return models.ResumeData{
		Name:   "Rina",
		Skills: []models.Skill{{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Kubernetes"}},
		Experiences: []models.Experience{
			{Title: "Backend Intern", Company: "Acme"},
			{Title: "Software Engineer", Company: "Globex"},
			{Title: "Data Intern", Company: "Initech"},
			{Title: "QA Intern", Company: "Hooli"},
		},
		Projects: []models.Project{
			{Name: "Ledger", Description: "Double-entry accounting service"},
			{Name: "Crawler"},
			{Name: "Dashboard"},
			{Name: "Ignored"},
		},
		Education: []models.Education{{Degree: "BSc Computer Science"}},
	}
}

func TestQuestionPromptInput(t *testing.T) {
	in := questionPromptInput(sampleResume(), "Backend Engineer", 5)

	if in.Skills != "Go, PostgreSQL, Kubernetes" {
		t.Fatalf("unexpected skills %q", in.Skills)
	}
	if in.RecentRole != "Software Engineer at Globex" {
		t.Fatalf("unexpected recent role %q", in.RecentRole)
	}
	if in.Internships != "Backend Intern at Acme; Data Intern at Initech" {
		t.Fatalf("unexpected internships %q", in.Internships)
	}
	if in.Projects != "Ledger, Crawler, Dashboard" {
		t.Fatalf("unexpected projects %q", in.Projects)
	}
	if in.ProjectDetails != "Ledger: Double-entry accounting service; Crawler: No description" {
		t.Fatalf("unexpected project details %q", in.ProjectDetails)
	}
	if in.Education != "BSc Computer Science" {
		t.Fatalf("unexpected education %q", in.Education)
	}
}

func TestGeneratePadsAndTruncates(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + `{"questions": [
		{"question_text": "Tell me about Ledger.", "question_type": "technical", "expected_elements": ["design"], "difficulty": "hard"},
		{"question_text": "", "question_type": "behavioral"},
		{"question_text": "Invalid type", "question_type": "riddle"},
		{"question_text": "Describe a conflict.", "related_to": "teamwork"}
	]}` + "\n```"}

	got := NewQuestionGenerator(gen, nil, 5, nil).Generate(context.Background(), sampleResume(), "Backend Engineer")

	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	for i, q := range got {
		if q.ID != i+1 {
			t.Fatalf("expected id %d, got %d", i+1, q.ID)
		}
	}
	if got[0].Type != models.QuestionTechnical || got[0].Difficulty != models.DifficultyHard {
		t.Fatalf("unexpected first question %+v", got[0])
	}
	if got[1].Text != "Describe a conflict." || got[1].Type != models.QuestionBehavioral || got[1].RelatedTo != "teamwork" {
		t.Fatalf("unexpected second question %+v", got[1])
	}
	if !strings.HasPrefix(got[2].Text, "Walk me through your approach to solving a complex problem in backend engineer") {
		t.Fatalf("expected technical padding for slot 3, got %q", got[2].Text)
	}

	call := gen.lastCall()
	if call.temperature != 0.8 {
		t.Fatalf("expected temperature 0.8, got %v", call.temperature)
	}
	if !strings.Contains(call.prompt, "Tell me about your Ledger") {
		t.Fatalf("expected prompt to reference the first project")
	}
}

func TestGenerateTruncatesOverProduction(t *testing.T) {
	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, `{"question_text": "Question", "question_type": "situational"}`)
	}
	gen := &stubGenerator{response: `{"questions": [` + strings.Join(items, ",") + `]}`}

	got := NewQuestionGenerator(gen, nil, 3, nil).Generate(context.Background(), models.ResumeData{}, "Designer")
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name  string
		gen   *stubGenerator
		role  string
		first string
	}{
		{
			name:  "backend error technical role",
			gen:   &stubGenerator{err: errBackendDown},
			role:  "DevOps Engineer",
			first: "Tell me about a significant project or internship where you applied DevOps Engineer skills.",
		},
		{
			name:  "unparseable non-technical role",
			gen:   &stubGenerator{response: "no json here"},
			role:  "Marketing Manager",
			first: "Tell me about your most impactful accomplishment as a Marketing Manager.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuestionGenerator(tt.gen, nil, 0, nil).Generate(context.Background(), models.ResumeData{}, tt.role)
			if len(got) != DefaultTotalQuestions {
				t.Fatalf("expected %d questions, got %d", DefaultTotalQuestions, len(got))
			}
			if got[0].Text != tt.first {
				t.Fatalf("unexpected first question %q", got[0].Text)
			}
			if got[4].Type != models.QuestionSituational {
				t.Fatalf("expected situational fifth question, got %s", got[4].Type)
			}
		})
	}
}

func TestGenericQuestionBeyondBank(t *testing.T) {
	q := defaultQuestionBank.generic(9, "Data Analyst")
	if q.ID != 9 || !strings.Contains(q.Text, "Data Analyst skills") {
		t.Fatalf("expected first technical template with id 9, got %+v", q)
	}
}

func TestGenerateUsesGuidance(t *testing.T) {
	store := &stubGuideStore{results: []SearchResult{{DocType: DocTypeCompanyValues, Score: 0.8, Text: "We value ownership."}}}
	gen := &stubGenerator{err: errBackendDown}

	NewQuestionGenerator(gen, NewGuideRetriever(&stubEmbedder{}, store, nil), 5, nil).
		Generate(context.Background(), sampleResume(), "Software Engineer")

	if !strings.Contains(gen.lastCall().prompt, "We value ownership.") {
		t.Fatalf("expected guidance in prompt")
	}
}

func TestLoadQuestionBankRejectsEmpty(t *testing.T) {
	if _, err := loadQuestionBank([]byte("technical: []\n")); err == nil {
		t.Fatalf("expected error for empty bank")
	}
}
