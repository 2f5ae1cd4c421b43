package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-coach/internal/models"
)

var ErrInterviewNotFound = errors.New("interview record not found")

type InterviewRepository interface {
	Save(record *models.InterviewRecord) error
	FindBySessionID(sessionID string) (*models.InterviewRecord, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Save upserts on session_id so re-archiving a session overwrites the previous record.
func (r *interviewRepository) Save(record *models.InterviewRecord) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"candidate_name", "target_role", "status", "overall_score", "recommendation",
			"session", "evaluations", "report", "started_at", "completed_at", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save interview record: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindBySessionID(sessionID string) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := r.db.Where("session_id = ?", sessionID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to find interview record: %w", err)
	}
	return &record, nil
}
