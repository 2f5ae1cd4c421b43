package models

// NarrativeComponent is one element of a situation/task/action/result answer.
type NarrativeComponent struct {
	Present bool   `json:"present"`
	Quote   string `json:"quote,omitempty"`
	Quality int    `json:"quality"`
}

type NarrativeResult struct {
	Situation NarrativeComponent `json:"situation"`
	Task      NarrativeComponent `json:"task"`
	Action    NarrativeComponent `json:"action"`
	Result    NarrativeComponent `json:"result"`
	Feedback  string             `json:"feedback"`
	Score     float64            `json:"score"`
}

// NamedComponent pairs a narrative component with its display name.
type NamedComponent struct {
	Name string
	NarrativeComponent
}

// Components lists the four components in narrative order.
func (r NarrativeResult) Components() []NamedComponent {
	return []NamedComponent{
		{Name: "Situation", NarrativeComponent: r.Situation},
		{Name: "Task", NarrativeComponent: r.Task},
		{Name: "Action", NarrativeComponent: r.Action},
		{Name: "Result", NarrativeComponent: r.Result},
	}
}

type Evaluation struct {
	RelevanceScore      float64         `json:"relevance_score"`
	ConfidenceScore     float64         `json:"confidence_score"`
	TechnicalDepthScore float64         `json:"technical_depth_score"`
	ClarityScore        float64         `json:"clarity_score"`
	IsOnTopic           bool            `json:"is_on_topic"`
	Strengths           []string        `json:"strengths"`
	Weaknesses          []string        `json:"weaknesses"`
	Feedback            string          `json:"feedback"`
	NeedsFollowUp       bool            `json:"needs_follow_up"`
	FollowUpReason      string          `json:"follow_up_reason"`
	Narrative           NarrativeResult `json:"star_analysis"`
	WordCount           int             `json:"word_count"`
	Persona             Persona         `json:"persona"`
}
