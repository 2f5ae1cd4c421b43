package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	DefaultTargetRole = "Software Engineer"
	maxDetectedRoles  = 5
)

type ResumeParser struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewResumeParser(generator TextGenerator, log *zap.Logger) *ResumeParser {
	return &ResumeParser{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           logger.Named(log, "resume"),
	}
}

// parsedResume mirrors ResumeData but accepts skills as plain strings or objects.
type parsedResume struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	LinkedIn       string              `json:"linkedin"`
	GitHub         string              `json:"github"`
	Summary        string              `json:"summary"`
	Skills         []json.RawMessage   `json:"skills"`
	Experiences    []models.Experience `json:"experiences"`
	Projects       []models.Project    `json:"projects"`
	Education      []models.Education  `json:"education"`
	Certifications []string            `json:"certifications"`
}

// Parse extracts structured résumé data. Failures yield a résumé holding only rawText.
func (p *ResumeParser) Parse(ctx context.Context, rawText string) models.ResumeData {
	fallback := models.ResumeData{RawText: rawText}

	response, err := p.generator.Generate(ctx, p.promptBuilder.BuildResumePrompt(rawText), 0.3, 0)
	if err != nil {
		p.log.Warn("resume parsing request failed", zap.Error(err))
		return fallback
	}

	var parsed parsedResume
	if err := decodeJSON(response, &parsed); err != nil {
		p.log.Warn("failed to parse resume response",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 200)),
		)
		return fallback
	}

	skills, err := decodeSkills(parsed.Skills)
	if err != nil {
		p.log.Warn("failed to decode resume skills", zap.Error(err))
		return fallback
	}

	resume := models.ResumeData{
		Name:           parsed.Name,
		Email:          parsed.Email,
		Phone:          parsed.Phone,
		LinkedIn:       parsed.LinkedIn,
		GitHub:         parsed.GitHub,
		Summary:        parsed.Summary,
		Skills:         skills,
		Experiences:    nonNil(parsed.Experiences),
		Projects:       nonNil(parsed.Projects),
		Education:      nonNil(parsed.Education),
		Certifications: nonNil(parsed.Certifications),
		RawText:        rawText,
	}

	p.log.Info("resume parsed",
		zap.Int("skills", len(resume.Skills)),
		zap.Int("experiences", len(resume.Experiences)),
		zap.Int("projects", len(resume.Projects)),
	)

	return resume
}

func decodeSkills(raw []json.RawMessage) ([]models.Skill, error) {
	skills := make([]models.Skill, 0, len(raw))
	for i, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			skills = append(skills, models.Skill{Name: name})
			continue
		}

		var skill models.Skill
		if err := json.Unmarshal(item, &skill); err != nil {
			return nil, fmt.Errorf("skill %d: %w", i, err)
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// DetectTargetRoles suggests up to five roles for the résumé, defaulting to Software Engineer.
func (p *ResumeParser) DetectTargetRoles(ctx context.Context, resume models.ResumeData) []string {
	var skills, titles, projects []string
	for i, s := range resume.Skills {
		if i == 15 {
			break
		}
		skills = append(skills, s.Name)
	}
	for i, exp := range resume.Experiences {
		if i == 3 {
			break
		}
		titles = append(titles, exp.Title)
	}
	for i, proj := range resume.Projects {
		if i == 3 {
			break
		}
		projects = append(projects, proj.Name)
	}
	education := ""
	if len(resume.Education) > 0 {
		education = resume.Education[0].Degree
	}

	prompt := p.promptBuilder.BuildRoleDetectionPrompt(
		strings.Join(skills, ", "), strings.Join(titles, ", "), strings.Join(projects, ", "), education)

	response, err := p.generator.Generate(ctx, prompt, 0.3, 0)
	if err != nil {
		p.log.Warn("role detection failed", zap.Error(err))
		return []string{DefaultTargetRole}
	}

	roles, ok := parseRoles(response)
	if !ok {
		p.log.Warn("failed to parse detected roles", zap.String("response", logger.TruncateForLog(response, 200)))
		return []string{DefaultTargetRole}
	}

	return roles
}

// parseRoles reads a JSON array of role names from a fenced block or the outermost brackets.
func parseRoles(response string) ([]string, bool) {
	var roles []string
	if err := decodeJSON(response, &roles); err != nil {
		start := strings.Index(response, "[")
		end := strings.LastIndex(response, "]")
		if start < 0 || end <= start {
			return nil, false
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &roles); err != nil {
			return nil, false
		}
	}

	out := make([]string, 0, maxDetectedRoles)
	for _, r := range roles {
		if r = strings.TrimSpace(r); r == "" {
			continue
		}
		out = append(out, r)
		if len(out) == maxDetectedRoles {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// ResumeSummary is the one-line digest kept on the session.
func ResumeSummary(resume models.ResumeData) string {
	var parts []string

	if resume.Name != "" {
		parts = append(parts, "Name: "+resume.Name)
	}

	if len(resume.Skills) > 0 {
		var names []string
		for i, s := range resume.Skills {
			if i == 5 {
				break
			}
			names = append(names, s.Name)
		}
		parts = append(parts, "Skills: "+strings.Join(names, ", "))
	}

	if len(resume.Experiences) > 0 {
		exp := resume.Experiences[0]
		parts = append(parts, fmt.Sprintf("Recent: %s at %s", exp.Title, exp.Company))
	}

	return strings.Join(parts, " | ")
}
