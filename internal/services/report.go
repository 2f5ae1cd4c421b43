package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	weightConfidence     = 0.25
	weightTechnical      = 0.25
	weightCommunication  = 0.25
	weightNarrative      = 0.15
	weightBehavioral     = 0.10
	defaultClarityScore  = 50.0
	verboseWordThreshold = 200
	terseWordThreshold   = 50
)

// ReportAggregator turns a finished session and its evaluations into a PerformanceReport.
type ReportAggregator struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	now           func() time.Time
	log           *zap.Logger
}

func NewReportAggregator(generator TextGenerator, log *zap.Logger) *ReportAggregator {
	return &ReportAggregator{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		now:           time.Now,
		log:           logger.Named(log, "report"),
	}
}

// Aggregate never mutates session or evaluations.
func (r *ReportAggregator) Aggregate(ctx context.Context, session *models.InterviewSession, evaluations []models.Evaluation) *models.PerformanceReport {
	scores := AggregateScores(evaluations)
	distribution := PersonaDistribution(evaluations)
	dominant := models.DominantPersona(distribution)
	insights := r.insights(ctx, session.TargetRole, scores, dominant, evaluations)
	level, ready := Recommendation(scores.Overall)

	report := &models.PerformanceReport{
		SessionID:              session.ID,
		CandidateName:          session.CandidateName,
		TargetRole:             session.TargetRole,
		InterviewDate:          session.StartTime,
		DurationMinutes:        durationMinutes(session),
		Scores:                 scores,
		QuestionEvaluations:    QuestionEvaluations(session, evaluations),
		OverallStrengths:       insights.Strengths,
		OverallWeaknesses:      insights.Weaknesses,
		ImprovementSuggestions: insights.Suggestions,
		DominantPersona:        dominant,
		PersonaDistribution:    distribution,
		NarrativeConsistency:   NarrativeConsistencyLabel(evaluations),
		CommunicationStyle:     CommunicationStyleLabel(evaluations),
		RecommendationLevel:    level,
		ReadyForInterviews:     ready,
		RecommendedNextSteps:   insights.NextSteps,
		GeneratedAt:            r.now(),
	}

	r.log.Info("report generated",
		zap.String(logger.FieldSessionID, session.ID),
		zap.Float64("overall", scores.Overall),
		zap.String("recommendation", string(level)),
	)

	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AggregateScores averages each metric and weights them into the overall score.
// Communication is the mean clarity and behavioral clarity the mean relevance.
func AggregateScores(evaluations []models.Evaluation) models.ScoreBreakdown {
	var confidence, technical, communication, narrative, behavioral float64

	if len(evaluations) == 0 {
		confidence, technical, communication, narrative, behavioral = 50, 50, 50, 0, 50
	} else {
		for _, e := range evaluations {
			confidence += e.ConfidenceScore
			technical += e.TechnicalDepthScore
			communication += e.ClarityScore
			narrative += e.Narrative.Score
			behavioral += e.RelevanceScore
		}
		n := float64(len(evaluations))
		confidence /= n
		technical /= n
		communication /= n
		narrative /= n
		behavioral /= n
	}

	overall := confidence*weightConfidence +
		technical*weightTechnical +
		communication*weightCommunication +
		narrative*weightNarrative +
		behavioral*weightBehavioral

	return models.ScoreBreakdown{
		Confidence:        round2(confidence),
		Communication:     round2(communication),
		TechnicalDepth:    round2(technical),
		NarrativeUsage:    round2(narrative),
		BehavioralClarity: round2(behavioral),
		Overall:           round2(overall),
	}
}

// QuestionEvaluations pairs slots with evaluations by position, skipping unanswered slots.
func QuestionEvaluations(session *models.InterviewSession, evaluations []models.Evaluation) []models.QuestionEvaluation {
	out := make([]models.QuestionEvaluation, 0, len(evaluations))

	for i, slot := range session.Questions {
		if i >= len(evaluations) {
			break
		}
		answer := slot.InitialAnswer
		if answer == nil {
			continue
		}
		e := evaluations[i]

		out = append(out, models.QuestionEvaluation{
			QuestionID:          slot.Question.ID,
			QuestionText:        slot.Question.Text,
			AnswerText:          answer.Text,
			WordCount:           answer.WordCount,
			DurationSeconds:     answer.DurationSeconds,
			RelevanceScore:      e.RelevanceScore,
			ConfidenceScore:     e.ConfidenceScore,
			TechnicalDepthScore: e.TechnicalDepthScore,
			Narrative: models.NarrativeSummary{
				SituationPresent: e.Narrative.Situation.Present,
				TaskPresent:      e.Narrative.Task.Present,
				ActionPresent:    e.Narrative.Action.Present,
				ResultPresent:    e.Narrative.Result.Present,
				Score:            e.Narrative.Score,
				Feedback:         e.Narrative.Feedback,
			},
			Persona:    slot.Persona,
			Strengths:  append([]string{}, e.Strengths...),
			Weaknesses: append([]string{}, e.Weaknesses...),
			Feedback:   e.Feedback,
		})
	}

	return out
}

// PersonaDistribution counts evaluation persona tags; unknown tags count as normal.
func PersonaDistribution(evaluations []models.Evaluation) map[models.Persona]int {
	var history models.PersonaHistory
	for _, e := range evaluations {
		p, _ := models.ParsePersona(string(e.Persona))
		history.Record(p)
	}
	return history.Distribution()
}

func NarrativeConsistencyLabel(evaluations []models.Evaluation) models.NarrativeConsistency {
	if len(evaluations) == 0 {
		return models.NarrativeNotUsed
	}

	total := 0.0
	for _, e := range evaluations {
		total += e.Narrative.Score
	}

	switch avg := total / float64(len(evaluations)); {
	case avg >= 70:
		return models.NarrativeConsistent
	case avg >= 40:
		return models.NarrativeInconsistent
	default:
		return models.NarrativeNotUsed
	}
}

func CommunicationStyleLabel(evaluations []models.Evaluation) models.CommunicationStyle {
	avgWords, avgClarity := 0.0, defaultClarityScore
	if n := float64(len(evaluations)); n > 0 {
		words, clarity := 0.0, 0.0
		for _, e := range evaluations {
			words += float64(e.WordCount)
			clarity += e.ClarityScore
		}
		avgWords, avgClarity = words/n, clarity/n
	}

	switch {
	case avgWords > verboseWordThreshold:
		return models.StyleVerbose
	case avgWords < terseWordThreshold:
		return models.StyleTerse
	case avgClarity >= 75:
		return models.StyleConcise
	default:
		return models.StyleUnclear
	}
}

// Recommendation maps the overall score to a level and interview readiness.
func Recommendation(overall float64) (models.RecommendationLevel, bool) {
	switch {
	case overall >= 75:
		return models.RecommendationStrong, true
	case overall >= 60:
		return models.RecommendationIntermediate, true
	case overall >= 45:
		return models.RecommendationIntermediate, false
	default:
		return models.RecommendationBeginner, false
	}
}

func durationMinutes(session *models.InterviewSession) float64 {
	if session.EndTime == nil || session.StartTime.IsZero() {
		return 0
	}
	return session.EndTime.Sub(session.StartTime).Minutes()
}

func evaluationSummary(evaluations []models.Evaluation) string {
	lines := make([]string, 0, len(evaluations))
	for i, e := range evaluations {
		lines = append(lines, fmt.Sprintf("Q%d: Relevance %g, Confidence %g, Depth %g",
			i+1, e.RelevanceScore, e.ConfidenceScore, e.TechnicalDepthScore))
	}
	return strings.Join(lines, "\n")
}

func (r *ReportAggregator) insights(ctx context.Context, targetRole string, scores models.ScoreBreakdown, dominant models.Persona, evaluations []models.Evaluation) models.Insights {
	prompt := r.promptBuilder.BuildInsightsPrompt(targetRole, scores, dominant, evaluationSummary(evaluations))

	response, err := r.generator.Generate(ctx, prompt, 0.7, 0)
	if err != nil {
		r.log.Warn("insight generation failed, using fallback", zap.Error(err))
		return FallbackInsights()
	}

	raw, err := decodeJSONObject(response)
	if err != nil {
		r.log.Warn("failed to parse insights",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 200)),
		)
		return FallbackInsights()
	}

	insights := models.Insights{
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: []string{},
		NextSteps:   []string{},
	}
	if v, ok := coerceStringSlice(raw["strengths"]); ok {
		insights.Strengths = v
	}
	if v, ok := coerceStringSlice(raw["weaknesses"]); ok {
		insights.Weaknesses = v
	}
	if v, ok := coerceStringSlice(raw["suggestions"]); ok {
		insights.Suggestions = v
	}
	if v, ok := coerceStringSlice(raw["next_steps"]); ok {
		insights.NextSteps = v
	}

	return insights
}

func FallbackInsights() models.Insights {
	return models.Insights{
		Strengths:  []string{"Completed all interview questions", "Provided thoughtful responses"},
		Weaknesses: []string{"Could improve technical depth", "Practice STAR method"},
		Suggestions: []string{
			"Practice answering with the STAR method structure",
			"Prepare specific examples from past experiences",
			"Study technical concepts in more depth",
			"Record yourself answering questions to improve clarity",
		},
		NextSteps: []string{
			"Do 5 more practice interviews",
			"Review common interview questions for your role",
			"Practice explaining technical concepts clearly",
		},
	}
}
