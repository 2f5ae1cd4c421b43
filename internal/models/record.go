package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeDocument is an uploaded résumé together with its parsed form.
type ResumeDocument struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID        string     `gorm:"type:text;uniqueIndex;not null" json:"session_id"`
	Filename         string     `gorm:"type:text" json:"filename"`
	OriginalFileName string     `gorm:"type:text" json:"original_filename"`
	FilePath         string     `gorm:"type:text" json:"file_path"`
	Data             ResumeData `gorm:"type:jsonb;serializer:json" json:"resume_data"`
	DetectedRoles    []string   `gorm:"type:jsonb;serializer:json" json:"detected_roles"`
	CreatedAt        time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ResumeDocument) TableName() string {
	return "resume_documents"
}

// InterviewRecord archives a finished interview and its report.
type InterviewRecord struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID      string             `gorm:"type:text;uniqueIndex;not null" json:"session_id"`
	CandidateName  string             `gorm:"type:text" json:"candidate_name"`
	TargetRole     string             `gorm:"type:text" json:"target_role"`
	Status         SessionStatus      `gorm:"type:text;not null" json:"status"`
	OverallScore   float64            `gorm:"type:decimal(5,2)" json:"overall_score"`
	Recommendation string             `gorm:"type:text" json:"recommendation_level"`
	Session        InterviewSession   `gorm:"type:jsonb;serializer:json" json:"session"`
	Evaluations    []Evaluation       `gorm:"type:jsonb;serializer:json" json:"evaluations"`
	Report         *PerformanceReport `gorm:"type:jsonb;serializer:json" json:"report,omitempty"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedAt      time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewRecord) TableName() string {
	return "interview_records"
}
