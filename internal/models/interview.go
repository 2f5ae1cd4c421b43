package models

import (
	"strings"
	"time"
)

type Persona string

const (
	PersonaConfused  Persona = "confused"
	PersonaEfficient Persona = "efficient"
	PersonaChatty    Persona = "chatty"
	PersonaEdgeCase  Persona = "edge_case"
	PersonaNormal    Persona = "normal"
)

var personaOrder = []Persona{
	PersonaConfused,
	PersonaEfficient,
	PersonaChatty,
	PersonaEdgeCase,
	PersonaNormal,
}

// Personas returns every persona in the fixed reporting order.
func Personas() []Persona {
	out := make([]Persona, len(personaOrder))
	copy(out, personaOrder)
	return out
}

func ParsePersona(s string) (Persona, bool) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range personaOrder {
		if p == known {
			return p, true
		}
	}
	return PersonaNormal, false
}

// PersonaHistory is the ordered record of personas detected within one session.
type PersonaHistory []Persona

func (h *PersonaHistory) Record(p Persona) {
	*h = append(*h, p)
}

// Distribution counts every persona; all five keys are always present.
func (h PersonaHistory) Distribution() map[Persona]int {
	dist := make(map[Persona]int, len(personaOrder))
	for _, p := range personaOrder {
		dist[p] = 0
	}
	for _, p := range h {
		if _, ok := dist[p]; ok {
			dist[p]++
		}
	}
	return dist
}

// Dominant is the most frequent persona, ties going to the earliest in Personas order.
// An empty history is normal.
func (h PersonaHistory) Dominant() Persona {
	if len(h) == 0 {
		return PersonaNormal
	}
	return DominantPersona(h.Distribution())
}

// DominantPersona picks the max count from dist using the fixed persona order.
func DominantPersona(dist map[Persona]int) Persona {
	best := personaOrder[0]
	bestCount := -1
	for _, p := range personaOrder {
		if dist[p] > bestCount {
			best = p
			bestCount = dist[p]
		}
	}
	return best
}

type FollowUpType string

const (
	FollowUpRedirect  FollowUpType = "redirect"
	FollowUpProbe     FollowUpType = "probe"
	FollowUpHint      FollowUpType = "hint"
	FollowUpChallenge FollowUpType = "challenge"
)

type QuestionType string

const (
	QuestionTechnical   QuestionType = "technical"
	QuestionBehavioral  QuestionType = "behavioral"
	QuestionSituational QuestionType = "situational"
	QuestionExperience  QuestionType = "experience"
)

func ParseQuestionType(s string) (QuestionType, bool) {
	switch t := QuestionType(strings.ToLower(strings.TrimSpace(s))); t {
	case QuestionTechnical, QuestionBehavioral, QuestionSituational, QuestionExperience:
		return t, true
	}
	return "", false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	}
	return DifficultyMedium
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

type Question struct {
	ID               int          `json:"question_id"`
	Text             string       `json:"question_text"`
	Type             QuestionType `json:"question_type"`
	RelatedTo        string       `json:"related_to,omitempty"`
	ExpectedElements []string     `json:"expected_elements"`
	Difficulty       Difficulty   `json:"difficulty"`
}

type Answer struct {
	QuestionID      int       `json:"question_id"`
	Text            string    `json:"answer_text"`
	DurationSeconds float64   `json:"duration_seconds"`
	WordCount       int       `json:"word_count"`
	IsVoice         bool      `json:"is_voice"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewAnswer(questionID int, text string, durationSeconds float64, isVoice bool, at time.Time) Answer {
	return Answer{
		QuestionID:      questionID,
		Text:            text,
		DurationSeconds: durationSeconds,
		WordCount:       len(strings.Fields(text)),
		IsVoice:         isVoice,
		Timestamp:       at,
	}
}

type FollowUp struct {
	Type   FollowUpType `json:"type"`
	Text   string       `json:"text"`
	Reason string       `json:"reason"`
	Answer *Answer      `json:"answer,omitempty"`
}

func (f *FollowUp) Pending() bool {
	return f != nil && f.Answer == nil
}

type QuestionSession struct {
	Question      Question    `json:"question"`
	InitialAnswer *Answer     `json:"initial_answer,omitempty"`
	FollowUp      *FollowUp   `json:"follow_up,omitempty"`
	Persona       Persona     `json:"persona_detected"`
	Evaluation    *Evaluation `json:"evaluation,omitempty"`
}

type InterviewSession struct {
	ID             string            `json:"session_id"`
	CandidateName  string            `json:"user_name,omitempty"`
	TargetRole     string            `json:"target_role"`
	ResumeSummary  string            `json:"resume_summary"`
	Questions      []QuestionSession `json:"questions"`
	Cursor         int               `json:"current_question_index"`
	Status         SessionStatus     `json:"status"`
	PersonaHistory PersonaHistory    `json:"persona_history"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        *time.Time        `json:"end_time,omitempty"`
}

// Current returns the slot at the cursor, or nil once the cursor is past the end.
func (s *InterviewSession) Current() *QuestionSession {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Cursor]
}
