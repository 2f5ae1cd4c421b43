package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildPersonaPrompt asks for a single persona label for an ambiguous answer.
func (pb *PromptBuilder) BuildPersonaPrompt(question, answer string) string {
	return fmt.Sprintf(`Classify the behaviour of a candidate from one interview answer.

Question: %s

Answer: %s

Categories:
- CONFUSED: hesitant, unsure, asks for clarification, low confidence
- EFFICIENT: structured, concise, direct, follows Situation-Task-Action-Result
- CHATTY: verbose, drifts into tangents, excessive detail
- EDGE_CASE: nonsense, invalid, extremely short, no real attempt
- NORMAL: none of the above

Reply with exactly one word: CONFUSED, EFFICIENT, CHATTY, EDGE_CASE or NORMAL.`,
		question, answer)
}

// BuildEvaluationPrompt requests the four 0-100 scores plus qualitative notes.
func (pb *PromptBuilder) BuildEvaluationPrompt(question, answer string, expectedElements []string, persona models.Persona) string {
	expected := strings.Join(expectedElements, ", ")
	if expected == "" {
		expected = "Not specified"
	}

	return fmt.Sprintf(`You are an experienced interviewer scoring a candidate's answer.

Question: %s

Expected elements: %s

Candidate answer: %s

Detected persona: %s

Score the answer from 0 to 100 on:
1. Relevance - how directly it addresses the question
2. Confidence - how decisive and assured the candidate sounds
3. Technical depth - how much real understanding is demonstrated
4. Clarity - how clear and well structured the answer is

Also decide whether the answer stays on topic, list concrete strengths and weaknesses,
write actionable feedback and say whether a follow-up question is needed and why.

Return JSON only:
{
  "relevance_score": 75,
  "confidence_score": 80,
  "technical_depth_score": 70,
  "clarity_score": 85,
  "is_on_topic": true,
  "strengths": ["Specific example from a real project"],
  "weaknesses": ["No measurable outcome"],
  "feedback": "Good structure, but quantify the impact...",
  "needs_follow_up": true,
  "follow_up_reason": "Probe the architectural trade-offs"
}`,
		question, expected, answer, persona)
}

// BuildNarrativePrompt asks which situation/task/action/result components are present.
func (pb *PromptBuilder) BuildNarrativePrompt(question, answer string) string {
	return fmt.Sprintf(`Analyse this interview answer for the STAR structure (Situation, Task, Action, Result).

Question: %s

Answer: %s

For each component decide whether it is present, quote the supporting part of the answer
and rate its quality from 1 to 5 (0 when absent).

Return JSON only:
{
  "situation_present": true,
  "situation_quote": "quote",
  "situation_quality": 4,
  "task_present": true,
  "task_quote": "quote",
  "task_quality": 3,
  "action_present": true,
  "action_quote": "quote",
  "action_quality": 5,
  "result_present": false,
  "result_quote": "",
  "result_quality": 0,
  "feedback": "How the candidate used the structure..."
}

Be strict but fair.`,
		question, answer)
}

var followUpInstructions = map[models.FollowUpType]string{
	models.FollowUpRedirect: `The candidate drifted off topic. Write a polite redirection that briefly acknowledges
the answer, notes the drift and brings them back to the original question.
Example: "I appreciate the context, but let's come back to the original question about X. Could you address..."`,
	models.FollowUpProbe: `The answer lacks depth. Write a probing question that asks for specific details,
concrete examples or data, the reasoning behind decisions and measurable results.
Example: "You mentioned improving performance. How exactly did you find the bottleneck and which optimisation did you apply?"`,
	models.FollowUpHint: `The candidate seems unsure. Write a supportive hint that gives a framework without
revealing the answer and points them to their own experience.
Example: "Let me frame it differently: think about the project where you used Y. How did you approach a similar problem there?"`,
	models.FollowUpChallenge: `The candidate sounds very confident. Write a challenging question about edge cases,
trade-offs, alternatives they did not mention or how the approach changes under new constraints.
Example: "That works, but what if you had constraint X? How would your design and its trade-offs change?"`,
}

// BuildFollowUpPrompt asks for one follow-up question of the given type.
func (pb *PromptBuilder) BuildFollowUpPrompt(question, answer string, evaluation models.Evaluation, persona models.Persona, followUpType models.FollowUpType, strategy AdaptationStrategy) string {
	instruction, ok := followUpInstructions[followUpType]
	if !ok {
		instruction = followUpInstructions[models.FollowUpProbe]
	}

	return fmt.Sprintf(`You are interviewing a candidate whose answers look %s.

Original question: %s

Their answer: %s

Evaluation: relevance %.0f/100, confidence %.0f/100, technical depth %.0f/100

Follow-up type: %s

%s

Tone: %s
Style: %s

Write ONE follow-up question. Output only the question.`,
		persona, question, answer,
		evaluation.RelevanceScore, evaluation.ConfidenceScore, evaluation.TechnicalDepthScore,
		followUpType, instruction, strategy.Tone, strategy.FollowUpStyle)
}

// QuestionPromptInput is the résumé digest used to personalise questions.
type QuestionPromptInput struct {
	TargetRole     string
	Count          int
	Skills         string
	RecentRole     string
	Internships    string
	Projects       string
	ProjectDetails string
	Education      string
	Guidance       string
}

// BuildQuestionPrompt asks for a personalised question set.
func (pb *PromptBuilder) BuildQuestionPrompt(in QuestionPromptInput) string {
	firstProject := "project"
	if in.Projects != "" {
		firstProject = strings.TrimSpace(strings.Split(in.Projects, ",")[0])
	}

	guidance := ""
	if strings.TrimSpace(in.Guidance) != "" {
		guidance = fmt.Sprintf("\nInterview guidance for this role:\n%s\n", in.Guidance)
	}

	return fmt.Sprintf(`You are an expert interviewer for %s positions. Generate exactly %d interview questions for this candidate.

Resume highlights:
- Skills: %s
- Recent experience: %s
- Internships: %s
- Projects: %s
- Project details: %s
- Education: %s
%s
Requirements:
1. Generate exactly %d questions
2. Mix types: 2 technical, 2 behavioral, 1 situational
3. Reference specific resume items: projects (e.g. "Tell me about your %s..."), internships, listed skills and work experience
4. Make the questions progressively harder
5. Include deep-dive questions that need Situation-Task-Action-Result answers

Return JSON only:
{
  "questions": [
    {
      "question_text": "I see you used Go at XYZ. Walk me through the most complex service you built there.",
      "question_type": "technical",
      "related_to": "Go experience at XYZ",
      "expected_elements": ["architecture", "decision making", "technical details", "impact"],
      "difficulty": "medium"
    }
  ]
}`,
		in.TargetRole, in.Count,
		orDefault(in.Skills, "Not listed"),
		orDefault(in.RecentRole, "Not listed"),
		orDefault(in.Internships, "None listed"),
		orDefault(in.Projects, "None listed"),
		orDefault(in.ProjectDetails, "No details available"),
		orDefault(in.Education, "Not specified"),
		guidance,
		in.Count, firstProject)
}

// BuildInsightsPrompt asks for the narrative part of the final report.
func (pb *PromptBuilder) BuildInsightsPrompt(targetRole string, scores models.ScoreBreakdown, dominant models.Persona, summary string) string {
	return fmt.Sprintf(`Write feedback insights for a practice interview.

Target role: %s
Overall score: %.2f/100
Dominant persona: %s

Score breakdown:
- Confidence: %.2f/100
- Communication: %.2f/100
- Technical depth: %.2f/100
- STAR method: %.2f/100
- Behavioral clarity: %.2f/100

Per-question summary:
%s

Provide 3-5 strengths, 3-5 areas for improvement, 5-7 specific actionable suggestions and 3-5 next steps.

Return JSON only:
{
  "strengths": ["..."],
  "weaknesses": ["..."],
  "suggestions": ["..."],
  "next_steps": ["..."]
}`,
		targetRole, scores.Overall, dominant,
		scores.Confidence, scores.Communication, scores.TechnicalDepth, scores.NarrativeUsage, scores.BehavioralClarity,
		summary)
}

// BuildResumePrompt asks for the structured form of a résumé.
func (pb *PromptBuilder) BuildResumePrompt(rawText string) string {
	return fmt.Sprintf(`Extract structured information from this resume.

Resume text:
%s

Return JSON only, with this shape:
{
  "name": "Full name",
  "email": "email@example.com",
  "phone": "phone number",
  "linkedin": "LinkedIn URL if present",
  "github": "GitHub URL if present",
  "summary": "Professional summary",
  "skills": [{"name": "Go", "category": "technical", "proficiency": "expert"}],
  "experiences": [{
    "company": "Company", "title": "Job title", "start_date": "Jan 2020", "end_date": "Present",
    "duration": "3 years", "responsibilities": ["..."], "achievements": ["..."], "technologies": ["..."]
  }],
  "projects": [{
    "name": "Project", "description": "Short description", "technologies": ["..."],
    "role": "Your role", "outcomes": ["..."], "url": "URL if available"
  }],
  "education": [{
    "institution": "University", "degree": "Bachelor of Science", "field": "Computer Science",
    "start_date": "2015", "end_date": "2019", "gpa": "3.8/4.0", "achievements": ["..."]
  }],
  "certifications": ["..."]
}`,
		rawText)
}

// BuildRoleDetectionPrompt asks which roles fit a résumé.
func (pb *PromptBuilder) BuildRoleDetectionPrompt(skills, titles, projects, education string) string {
	return fmt.Sprintf(`Suggest the 3-5 job roles that best fit this candidate.

Skills: %s
Experience titles: %s
Projects: %s
Education: %s

Consider: Software Engineer, Data Analyst, Data Engineer, Project Manager, Product Manager,
Business Analyst, Marketing Manager, HR Manager, DevOps Engineer, Full-Stack Developer.

Return only a JSON array of role names, e.g. ["Software Engineer", "Data Analyst"].`,
		orDefault(skills, "N/A"), orDefault(titles, "N/A"), orDefault(projects, "None"), orDefault(education, "N/A"))
}

// BuildGuidanceQuery is the retrieval query for interview-guide context.
func (pb *PromptBuilder) BuildGuidanceQuery(targetRole, skills string) string {
	if skills == "" {
		return fmt.Sprintf("Interview expectations and competencies for %s", targetRole)
	}
	return fmt.Sprintf("Interview expectations and competencies for %s with skills: %s", targetRole, skills)
}

// FormatRAGContext renders retrieved chunks for a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guide %d (%s, score %.2f) ---\n%s",
			i+1, result.DocType, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
