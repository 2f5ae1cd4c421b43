package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-coach/internal/models"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Save(doc *models.ResumeDocument) error
	FindBySessionID(sessionID string) (*models.ResumeDocument, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Save inserts the résumé, replacing the parsed data of an existing row for the same session.
func (r *resumeRepository) Save(doc *models.ResumeDocument) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"filename", "original_file_name", "file_path", "data", "detected_roles", "updated_at"}),
	}).Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindBySessionID(sessionID string) (*models.ResumeDocument, error) {
	var doc models.ResumeDocument
	if err := r.db.Where("session_id = ?", sessionID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &doc, nil
}
