package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const defaultFollowUpReason = "Seeking clarification"

var fallbackFollowUps = map[models.FollowUpType]string{
	models.FollowUpRedirect:  "Let's refocus on the original question. Can you provide a more specific answer addressing the core issue?",
	models.FollowUpProbe:     "Can you elaborate more on that? What specific steps did you take, and what were the measurable outcomes?",
	models.FollowUpHint:      "Think about your past experiences. Can you relate this to a specific project or situation from your background?",
	models.FollowUpChallenge: "That's interesting. How would you handle this situation if you had different constraints? What alternatives did you consider?",
}

type FollowUpEngine struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewFollowUpEngine(generator TextGenerator, log *zap.Logger) *FollowUpEngine {
	return &FollowUpEngine{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           logger.Named(log, "followup"),
	}
}

// Decide returns a follow-up when the evaluation asks for one, nil otherwise.
func (f *FollowUpEngine) Decide(ctx context.Context, question, answer string, evaluation models.Evaluation, persona models.Persona) *models.FollowUp {
	if !evaluation.NeedsFollowUp {
		return nil
	}

	followUpType := SelectFollowUpType(evaluation, persona)
	text := f.generateText(ctx, question, answer, evaluation, persona, followUpType)
	if text == "" {
		text = FallbackFollowUp(followUpType)
	}

	reason := evaluation.FollowUpReason
	if strings.TrimSpace(reason) == "" {
		reason = defaultFollowUpReason
	}

	f.log.Debug("follow-up generated",
		zap.String("type", string(followUpType)),
		zap.String("persona", string(persona)),
	)

	return &models.FollowUp{
		Type:   followUpType,
		Text:   text,
		Reason: reason,
	}
}

// SelectFollowUpType applies the type rules in priority order.
func SelectFollowUpType(evaluation models.Evaluation, persona models.Persona) models.FollowUpType {
	switch {
	case !evaluation.IsOnTopic:
		return models.FollowUpRedirect
	case evaluation.RelevanceScore < 60:
		return models.FollowUpProbe
	case persona == models.PersonaConfused:
		return models.FollowUpHint
	case evaluation.ConfidenceScore > 80:
		return models.FollowUpChallenge
	case evaluation.TechnicalDepthScore < 60:
		return models.FollowUpProbe
	default:
		return models.FollowUpProbe
	}
}

func (f *FollowUpEngine) generateText(ctx context.Context, question, answer string, evaluation models.Evaluation, persona models.Persona, followUpType models.FollowUpType) string {
	prompt := f.promptBuilder.BuildFollowUpPrompt(question, answer, evaluation, persona, followUpType, StrategyFor(persona))

	response, err := f.generator.Generate(ctx, prompt, 0.7, 150)
	if err != nil {
		f.log.Warn("follow-up generation failed, using fallback",
			zap.Error(err),
			zap.String("type", string(followUpType)),
		)
		return FallbackFollowUp(followUpType)
	}

	return cleanFollowUpText(response)
}

// cleanFollowUpText strips wrapping quotes and any "Preamble:" prefix.
func cleanFollowUpText(response string) string {
	text := trimQuotes(response)
	if i := strings.Index(text, ":"); i >= 0 {
		text = trimQuotes(text[i+1:])
	}
	return text
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
}

func FallbackFollowUp(t models.FollowUpType) string {
	if text, ok := fallbackFollowUps[t]; ok {
		return text
	}
	return fallbackFollowUps[models.FollowUpProbe]
}
