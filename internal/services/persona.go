package services

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

var hesitationMarkers = []string{"um", "uh", "like", "maybe", "i think", "i guess", "kind of", "sort of"}

var structureMarkers = []string{"situation", "task", "action", "result", "first", "then", "finally"}

// AdaptationStrategy describes how the interviewer adapts to a persona.
type AdaptationStrategy struct {
	Tone          string `json:"tone"`
	Approach      string `json:"approach"`
	FollowUpStyle string `json:"follow_up_style"`
	Feedback      string `json:"feedback"`
}

var adaptationStrategies = map[models.Persona]AdaptationStrategy{
	models.PersonaConfused: {
		Tone:          "supportive and guiding",
		Approach:      "Break down questions, provide hints, use simpler language",
		FollowUpStyle: "gentle probing with examples",
		Feedback:      "Encourage and guide towards structure",
	},
	models.PersonaEfficient: {
		Tone:          "professional and direct",
		Approach:      "Keep questions crisp, move quickly, challenge more",
		FollowUpStyle: "deep technical probes",
		Feedback:      "Acknowledge efficiency, push for even more depth",
	},
	models.PersonaChatty: {
		Tone:          "polite but redirective",
		Approach:      "Interrupt gently, refocus on core question",
		FollowUpStyle: "specific pointed questions",
		Feedback:      "Encourage conciseness and focus",
	},
	models.PersonaEdgeCase: {
		Tone:          "patient and clarifying",
		Approach:      "Request clarification, offer multiple choice, simplify",
		FollowUpStyle: "yes/no or structured options",
		Feedback:      "Guide towards valid responses",
	},
	models.PersonaNormal: {
		Tone:          "balanced and professional",
		Approach:      "Standard interview technique",
		FollowUpStyle: "contextual probing",
		Feedback:      "Balanced feedback",
	},
}

// StrategyFor returns the adaptation strategy for p, defaulting to normal.
func StrategyFor(p models.Persona) AdaptationStrategy {
	if s, ok := adaptationStrategies[p]; ok {
		return s
	}
	return adaptationStrategies[models.PersonaNormal]
}

type PersonaClassifier struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewPersonaClassifier(generator TextGenerator, log *zap.Logger) *PersonaClassifier {
	return &PersonaClassifier{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           logger.Named(log, "persona"),
	}
}

// Classify labels one answer and appends the label to history when history is non-nil.
// Short or low-diversity answers are re-labelled by the generative backend.
func (c *PersonaClassifier) Classify(ctx context.Context, history *models.PersonaHistory, question, answer string, durationSeconds float64, wordCount int) models.Persona {
	persona := classifyByRules(answer, durationSeconds, wordCount)

	if persona == models.PersonaEdgeCase || len(strings.Fields(answer)) < 10 {
		persona = c.classifyWithBackend(ctx, question, answer)
	}

	if history != nil {
		history.Record(persona)
	}

	c.log.Debug("persona detected",
		zap.String("persona", string(persona)),
		zap.Int("word_count", wordCount),
		zap.Float64("duration_seconds", durationSeconds),
	)

	return persona
}

func classifyByRules(answer string, durationSeconds float64, wordCount int) models.Persona {
	if wordCount < 10 {
		return models.PersonaEdgeCase
	}

	if distinctCharacters(answer) < 5 {
		return models.PersonaEdgeCase
	}

	lower := strings.ToLower(answer)

	hesitations := 0
	for _, marker := range hesitationMarkers {
		hesitations += strings.Count(lower, marker)
	}
	if hesitations > 3 || (hesitations > 1 && wordCount < 50) {
		return models.PersonaConfused
	}

	if wordCount > 300 || durationSeconds > 150 {
		return models.PersonaChatty
	}

	if wordCount >= 50 && wordCount <= 150 && durationSeconds < 90 {
		for _, marker := range structureMarkers {
			if strings.Contains(lower, marker) {
				return models.PersonaEfficient
			}
		}
	}

	return models.PersonaNormal
}

// distinctCharacters counts distinct case-folded non-space characters.
func distinctCharacters(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

func (c *PersonaClassifier) classifyWithBackend(ctx context.Context, question, answer string) models.Persona {
	if c.generator == nil {
		return models.PersonaNormal
	}

	prompt := c.promptBuilder.BuildPersonaPrompt(question, answer)
	response, err := c.generator.Generate(ctx, prompt, 0.3, 10)
	if err != nil {
		c.log.Warn("persona escalation failed, using normal", zap.Error(err))
		return models.PersonaNormal
	}

	return parsePersonaLabel(response)
}

// parsePersonaLabel maps free text to the first matching label.
func parsePersonaLabel(response string) models.Persona {
	label := strings.ToUpper(strings.TrimSpace(response))

	switch {
	case strings.Contains(label, "CONFUSED"):
		return models.PersonaConfused
	case strings.Contains(label, "EFFICIENT"):
		return models.PersonaEfficient
	case strings.Contains(label, "CHATTY"):
		return models.PersonaChatty
	case strings.Contains(label, "EDGE"):
		return models.PersonaEdgeCase
	default:
		return models.PersonaNormal
	}
}
