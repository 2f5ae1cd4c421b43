package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	defaultScore    = 50.0
	defaultFeedback = "Response received."
)

type ResponseEvaluator struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewResponseEvaluator(generator TextGenerator, log *zap.Logger) *ResponseEvaluator {
	return &ResponseEvaluator{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           logger.Named(log, "evaluator"),
	}
}

// Evaluate scores one answer. Backend or parse failures yield FallbackEvaluation.
func (e *ResponseEvaluator) Evaluate(ctx context.Context, question, answer string, expectedElements []string, persona models.Persona) models.Evaluation {
	prompt := e.promptBuilder.BuildEvaluationPrompt(question, answer, expectedElements, persona)

	response, err := e.generator.Generate(ctx, prompt, 0.3, 0)
	if err != nil {
		e.log.Warn("evaluation request failed, using fallback", zap.Error(err))
		return FallbackEvaluation()
	}

	raw, err := decodeJSONObject(response)
	if err != nil {
		e.log.Warn("failed to parse evaluation response",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 200)),
		)
		return FallbackEvaluation()
	}

	return NormalizeEvaluation(raw)
}

// NormalizeEvaluation builds a typed Evaluation from loosely typed backend output.
// Missing scores default to 50, present scores are clamped to [0,100] and
// non-numeric scores become 50.
func NormalizeEvaluation(raw map[string]any) models.Evaluation {
	eval := models.Evaluation{
		RelevanceScore:      normalizeScore(raw, "relevance_score"),
		ConfidenceScore:     normalizeScore(raw, "confidence_score"),
		TechnicalDepthScore: normalizeScore(raw, "technical_depth_score"),
		ClarityScore:        normalizeScore(raw, "clarity_score"),
		IsOnTopic:           true,
		Strengths:           []string{},
		Weaknesses:          []string{},
		Feedback:            defaultFeedback,
	}

	if v, ok := coerceBool(raw["is_on_topic"]); ok {
		eval.IsOnTopic = v
	}
	if v, ok := coerceStringSlice(raw["strengths"]); ok {
		eval.Strengths = v
	}
	if v, ok := coerceStringSlice(raw["weaknesses"]); ok {
		eval.Weaknesses = v
	}
	if v, ok := coerceString(raw["feedback"]); ok && v != "" {
		eval.Feedback = v
	}
	if v, ok := coerceBool(raw["needs_follow_up"]); ok {
		eval.NeedsFollowUp = v
	}
	if v, ok := coerceString(raw["follow_up_reason"]); ok {
		eval.FollowUpReason = v
	}

	return eval
}

func normalizeScore(raw map[string]any, key string) float64 {
	v, present := raw[key]
	if !present {
		return defaultScore
	}
	score, ok := coerceFloat(v)
	if !ok {
		return defaultScore
	}
	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FallbackEvaluation is used when the backend cannot produce a usable evaluation.
func FallbackEvaluation() models.Evaluation {
	return models.Evaluation{
		RelevanceScore:      defaultScore,
		ConfidenceScore:     defaultScore,
		TechnicalDepthScore: defaultScore,
		ClarityScore:        defaultScore,
		IsOnTopic:           true,
		Strengths:           []string{"Response provided"},
		Weaknesses:          []string{"Could not be fully evaluated"},
		Feedback:            "Your response has been recorded.",
	}
}

// OverallScore is the unweighted mean of the four answer scores.
func OverallScore(e models.Evaluation) float64 {
	return (e.RelevanceScore + e.ConfidenceScore + e.TechnicalDepthScore + e.ClarityScore) / 4
}
