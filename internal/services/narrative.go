package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	narrativePresencePoints = 10.0
	narrativeQualityPoints  = 15.0
)

// NarrativeChecker detects situation/task/action/result components in an answer.
type NarrativeChecker struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewNarrativeChecker(generator TextGenerator, log *zap.Logger) *NarrativeChecker {
	return &NarrativeChecker{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           logger.Named(log, "narrative"),
	}
}

func (n *NarrativeChecker) Check(ctx context.Context, question, answer string) models.NarrativeResult {
	prompt := n.promptBuilder.BuildNarrativePrompt(question, answer)

	response, err := n.generator.Generate(ctx, prompt, 0.3, 0)
	if err != nil {
		n.log.Warn("narrative request failed, using fallback", zap.Error(err))
		return FallbackNarrative()
	}

	raw, err := decodeJSONObject(response)
	if err != nil {
		n.log.Warn("failed to parse narrative response",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 200)),
		)
		return FallbackNarrative()
	}

	result := models.NarrativeResult{
		Situation: narrativeComponent(raw, "situation"),
		Task:      narrativeComponent(raw, "task"),
		Action:    narrativeComponent(raw, "action"),
		Result:    narrativeComponent(raw, "result"),
	}
	if v, ok := coerceString(raw["feedback"]); ok {
		result.Feedback = strings.TrimSpace(v)
	}
	result.Score = NarrativeScore(result)
	if result.Feedback == "" {
		result.Feedback = NarrativeFeedback(result)
	}

	return result
}

func narrativeComponent(raw map[string]any, name string) models.NarrativeComponent {
	var c models.NarrativeComponent
	if v, ok := coerceBool(raw[name+"_present"]); ok {
		c.Present = v
	}
	if v, ok := coerceString(raw[name+"_quote"]); ok {
		c.Quote = v
	}
	if v, ok := coerceInt(raw[name+"_quality"]); ok {
		c.Quality = clampQuality(v)
	}
	return c
}

func clampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > 5 {
		return 5
	}
	return q
}

// NarrativeScore awards 10 points per present component plus up to 15 for its quality, capped at 100.
func NarrativeScore(r models.NarrativeResult) float64 {
	score := 0.0
	for _, c := range r.Components() {
		if !c.Present {
			continue
		}
		score += narrativePresencePoints
		score += float64(clampQuality(c.Quality)) / 5 * narrativeQualityPoints
	}
	return math.Min(100, score)
}

// NarrativeFeedback names missing and weak components with targeted advice.
func NarrativeFeedback(r models.NarrativeResult) string {
	var missing, weak []string
	for _, c := range r.Components() {
		switch {
		case !c.Present:
			missing = append(missing, c.Name)
		case c.Quality < 3:
			weak = append(weak, c.Name)
		}
	}

	if len(missing) == 0 && len(weak) == 0 {
		return "Excellent use of the STAR method! All components are present and well-articulated."
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Your answer is missing: %s.", strings.Join(missing, ", ")))
	}
	if len(weak) > 0 {
		parts = append(parts, fmt.Sprintf("Consider strengthening: %s.", strings.Join(weak, ", ")))
	}
	if !r.Result.Present {
		parts = append(parts, "Always quantify your results with metrics or specific outcomes.")
	}
	if !r.Action.Present || r.Action.Quality < 3 {
		parts = append(parts, "Describe your specific actions and decisions in detail.")
	}

	return strings.Join(parts, " ")
}

func FallbackNarrative() models.NarrativeResult {
	return models.NarrativeResult{
		Feedback: "Could not analyze STAR pattern.",
		Score:    0,
	}
}
