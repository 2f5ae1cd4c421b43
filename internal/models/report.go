package models

import "time"

type ScoreBreakdown struct {
	Confidence        float64 `json:"confidence"`
	Communication     float64 `json:"communication"`
	TechnicalDepth    float64 `json:"technical_depth"`
	NarrativeUsage    float64 `json:"star_method_usage"`
	BehavioralClarity float64 `json:"behavioral_clarity"`
	Overall           float64 `json:"overall"`
}

type NarrativeSummary struct {
	SituationPresent bool    `json:"situation_present"`
	TaskPresent      bool    `json:"task_present"`
	ActionPresent    bool    `json:"action_present"`
	ResultPresent    bool    `json:"result_present"`
	Score            float64 `json:"score"`
	Feedback         string  `json:"feedback"`
}

type QuestionEvaluation struct {
	QuestionID          int              `json:"question_id"`
	QuestionText        string           `json:"question_text"`
	AnswerText          string           `json:"answer_text"`
	WordCount           int              `json:"word_count"`
	DurationSeconds     float64          `json:"duration_seconds"`
	RelevanceScore      float64          `json:"relevance_score"`
	ConfidenceScore     float64          `json:"confidence_score"`
	TechnicalDepthScore float64          `json:"technical_depth_score"`
	Narrative           NarrativeSummary `json:"star_analysis"`
	Persona             Persona          `json:"persona_detected"`
	Strengths           []string         `json:"strengths"`
	Weaknesses          []string         `json:"weaknesses"`
	Feedback            string           `json:"feedback"`
}

type NarrativeConsistency string

const (
	NarrativeConsistent   NarrativeConsistency = "consistent"
	NarrativeInconsistent NarrativeConsistency = "inconsistent"
	NarrativeNotUsed      NarrativeConsistency = "not_used"
)

type CommunicationStyle string

const (
	StyleVerbose CommunicationStyle = "verbose"
	StyleTerse   CommunicationStyle = "terse"
	StyleConcise CommunicationStyle = "concise"
	StyleUnclear CommunicationStyle = "unclear"
)

type RecommendationLevel string

const (
	RecommendationStrong       RecommendationLevel = "Strong"
	RecommendationIntermediate RecommendationLevel = "Intermediate"
	RecommendationBeginner     RecommendationLevel = "Beginner"
)

// Insights is the narrative part of a report produced by the generative backend.
type Insights struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	NextSteps   []string `json:"next_steps"`
}

type PerformanceReport struct {
	SessionID              string               `json:"session_id"`
	CandidateName          string               `json:"candidate_name,omitempty"`
	TargetRole             string               `json:"target_role"`
	InterviewDate          time.Time            `json:"interview_date"`
	DurationMinutes        float64              `json:"duration_minutes"`
	Scores                 ScoreBreakdown       `json:"scores"`
	QuestionEvaluations    []QuestionEvaluation `json:"question_evaluations"`
	OverallStrengths       []string             `json:"overall_strengths"`
	OverallWeaknesses      []string             `json:"overall_weaknesses"`
	ImprovementSuggestions []string             `json:"improvement_suggestions"`
	DominantPersona        Persona              `json:"dominant_persona"`
	PersonaDistribution    map[Persona]int      `json:"persona_distribution"`
	NarrativeConsistency   NarrativeConsistency `json:"star_method_consistency"`
	CommunicationStyle     CommunicationStyle   `json:"communication_style"`
	RecommendationLevel    RecommendationLevel  `json:"recommendation_level"`
	ReadyForInterviews     bool                 `json:"ready_for_interviews"`
	RecommendedNextSteps   []string             `json:"recommended_next_steps"`
	GeneratedAt            time.Time            `json:"report_generated_at"`
}
