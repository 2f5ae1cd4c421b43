package services

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const DefaultTotalQuestions = 5

//go:embed question_bank.yaml
var questionBankYAML []byte

type bankEntry struct {
	Text       string `yaml:"text"`
	Type       string `yaml:"type"`
	Difficulty string `yaml:"difficulty"`
}

type questionBank struct {
	TechnicalKeywords []string    `yaml:"technical_keywords"`
	Technical         []bankEntry `yaml:"technical"`
	General           []bankEntry `yaml:"general"`
}

var defaultQuestionBank = mustLoadQuestionBank(questionBankYAML)

func loadQuestionBank(data []byte) (*questionBank, error) {
	var bank questionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if len(bank.Technical) == 0 || len(bank.General) == 0 {
		return nil, fmt.Errorf("question bank needs technical and general questions")
	}
	return &bank, nil
}

func mustLoadQuestionBank(data []byte) *questionBank {
	bank, err := loadQuestionBank(data)
	if err != nil {
		panic(err)
	}
	return bank
}

func (b *questionBank) isTechnicalRole(targetRole string) bool {
	role := strings.ToLower(targetRole)
	for _, kw := range b.TechnicalKeywords {
		if strings.Contains(role, kw) {
			return true
		}
	}
	return false
}

// generic returns bank question id (1-based) for the role; ids past the bank use the first entry.
func (b *questionBank) generic(id int, targetRole string) models.Question {
	entries := b.General
	if b.isTechnicalRole(targetRole) {
		entries = b.Technical
	}

	entry := entries[0]
	if id >= 1 && id <= len(entries) {
		entry = entries[id-1]
	}

	text := strings.NewReplacer("{role_lower}", strings.ToLower(targetRole), "{role}", targetRole).Replace(entry.Text)
	qType, ok := models.ParseQuestionType(entry.Type)
	if !ok {
		qType = models.QuestionBehavioral
	}

	return models.Question{
		ID:               id,
		Text:             text,
		Type:             qType,
		ExpectedElements: []string{},
		Difficulty:       models.ParseDifficulty(entry.Difficulty),
	}
}

type QuestionGenerator struct {
	generator     TextGenerator
	guides        *GuideRetriever
	promptBuilder *PromptBuilder
	bank          *questionBank
	total         int
	log           *zap.Logger
}

// NewQuestionGenerator builds a generator producing total questions per session.
// guides may be nil.
func NewQuestionGenerator(generator TextGenerator, guides *GuideRetriever, total int, log *zap.Logger) *QuestionGenerator {
	if total <= 0 {
		total = DefaultTotalQuestions
	}
	return &QuestionGenerator{
		generator:     generator,
		guides:        guides,
		promptBuilder: NewPromptBuilder(),
		bank:          defaultQuestionBank,
		total:         total,
		log:           logger.Named(log, "questions"),
	}
}

func (g *QuestionGenerator) Total() int {
	return g.total
}

// Generate always returns exactly Total questions with ids 1..Total.
func (g *QuestionGenerator) Generate(ctx context.Context, resume models.ResumeData, targetRole string) []models.Question {
	input := questionPromptInput(resume, targetRole, g.total)
	input.Guidance = g.guides.Guidance(ctx, targetRole, input.Skills)

	prompt := g.promptBuilder.BuildQuestionPrompt(input)
	response, err := g.generator.Generate(ctx, prompt, 0.8, 0)
	if err != nil {
		g.log.Warn("question generation failed, using generic questions",
			zap.Error(err),
			zap.String(logger.FieldRole, targetRole),
		)
		return g.fallback(targetRole)
	}

	raw, err := decodeJSONObject(response)
	if err != nil {
		g.log.Warn("failed to parse generated questions",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 200)),
		)
		return g.fallback(targetRole)
	}

	items, _ := raw["questions"].([]any)
	questions := make([]models.Question, 0, g.total)
	for i, item := range items {
		if len(questions) == g.total {
			break
		}
		q, ok := parseGeneratedQuestion(item, len(questions)+1)
		if !ok {
			g.log.Debug("skipping malformed generated question", zap.Int("index", i))
			continue
		}
		questions = append(questions, q)
	}

	generated := len(questions)
	for len(questions) < g.total {
		questions = append(questions, g.bank.generic(len(questions)+1, targetRole))
	}

	g.log.Info("questions generated",
		zap.String(logger.FieldRole, targetRole),
		zap.Int("generated", generated),
		zap.Int("padded", g.total-generated),
	)

	return questions
}

func (g *QuestionGenerator) fallback(targetRole string) []models.Question {
	questions := make([]models.Question, g.total)
	for i := range questions {
		questions[i] = g.bank.generic(i+1, targetRole)
	}
	return questions
}

func parseGeneratedQuestion(item any, id int) (models.Question, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.Question{}, false
	}

	text, _ := coerceString(obj["question_text"])
	if strings.TrimSpace(text) == "" {
		return models.Question{}, false
	}

	qType := models.QuestionBehavioral
	if rawType, present := obj["question_type"]; present {
		s, _ := coerceString(rawType)
		parsed, ok := models.ParseQuestionType(s)
		if !ok {
			return models.Question{}, false
		}
		qType = parsed
	}

	q := models.Question{
		ID:               id,
		Text:             strings.TrimSpace(text),
		Type:             qType,
		ExpectedElements: []string{},
		Difficulty:       models.DifficultyMedium,
	}
	if v, ok := coerceString(obj["related_to"]); ok {
		q.RelatedTo = v
	}
	if v, ok := coerceStringSlice(obj["expected_elements"]); ok {
		q.ExpectedElements = v
	}
	if v, ok := coerceString(obj["difficulty"]); ok {
		q.Difficulty = models.ParseDifficulty(v)
	}

	return q, true
}

// questionPromptInput condenses the résumé into the fields the question prompt references.
func questionPromptInput(resume models.ResumeData, targetRole string, count int) QuestionPromptInput {
	in := QuestionPromptInput{TargetRole: targetRole, Count: count}

	var skills []string
	for _, s := range resume.Skills {
		if len(skills) == 10 {
			break
		}
		skills = append(skills, s.Name)
	}
	in.Skills = strings.Join(skills, ", ")

	var internships []string
	for _, exp := range resume.Experiences {
		label := fmt.Sprintf("%s at %s", exp.Title, exp.Company)
		if strings.Contains(strings.ToLower(exp.Title), "intern") {
			if len(internships) < 2 {
				internships = append(internships, label)
			}
			continue
		}
		if in.RecentRole == "" {
			in.RecentRole = label
		}
	}
	in.Internships = strings.Join(internships, "; ")

	var names, details []string
	for i, p := range resume.Projects {
		if i == 3 {
			break
		}
		names = append(names, p.Name)
		if i < 2 {
			desc := "No description"
			if p.Description != "" {
				desc = truncateRunes(p.Description, 100)
			}
			details = append(details, fmt.Sprintf("%s: %s", p.Name, desc))
		}
	}
	in.Projects = strings.Join(names, ", ")
	in.ProjectDetails = strings.Join(details, "; ")

	if len(resume.Education) > 0 {
		in.Education = resume.Education[0].Degree
	}

	return in
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
