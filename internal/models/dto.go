package models

type ResumeUploadResponse struct {
	SessionID     string     `json:"session_id"`
	ResumeData    ResumeData `json:"resume_data"`
	DetectedRoles []string   `json:"detected_roles"`
	Message       string     `json:"message"`
}

type StartInterviewRequest struct {
	SessionID     string `json:"session_id"`
	TargetRole    string `json:"target_role"`
	CandidateName string `json:"candidate_name"`
}

type StartInterviewResponse struct {
	Success           bool     `json:"success"`
	SessionID         string   `json:"session_id"`
	Question          Question `json:"question"`
	QuestionNumber    int      `json:"question_number"`
	TotalQuestions    int      `json:"total_questions"`
	PrepTimeSeconds   int      `json:"prep_time_seconds"`
	AnswerTimeSeconds int      `json:"answer_time_seconds"`
}

type SubmitAnswerRequest struct {
	SessionID       string  `json:"session_id"`
	QuestionID      int     `json:"question_id"`
	AnswerText      string  `json:"answer_text"`
	DurationSeconds float64 `json:"duration_seconds"`
	IsVoice         bool    `json:"is_voice"`
}

type SubmitAnswerResponse struct {
	Success             bool      `json:"success"`
	FollowUpQuestion    *FollowUp `json:"follow_up_question,omitempty"`
	NextQuestion        *Question `json:"next_question,omitempty"`
	IsInterviewComplete bool      `json:"is_interview_complete"`
	Message             string    `json:"message"`
}

type SessionStatusResponse struct {
	SessionID       string        `json:"session_id"`
	Status          SessionStatus `json:"status"`
	CurrentQuestion int           `json:"current_question"`
	TotalQuestions  int           `json:"total_questions"`
	TargetRole      string        `json:"target_role"`
}

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportPDF  ExportFormat = "pdf"
	ExportBoth ExportFormat = "both"
)

type ReportRequest struct {
	SessionID    string       `json:"session_id"`
	ExportFormat ExportFormat `json:"export_format"`
}

type ReportBothResponse struct {
	JSONReport     *PerformanceReport `json:"json_report"`
	PDFAvailable   bool               `json:"pdf_available"`
	PDFDownloadURL string             `json:"pdf_download_url"`
}
