// Package progress provides database operations for import progress tracking.
//
// This package implements the importer.ProgressRecorder interface so the
// HTTP layer can poll two bars (one per platform) while an import runs.
package progress

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/personachat/internal/entities"
)

// Repository handles all import progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Start creates or resets a progress record for one channel of an import run.
// Implements ProgressRecorder.Start.
func (r *Repository) Start(personaName string, channel entities.ImportChannel) error {
	var record entities.ImportProgress
	result := r.db.Where("persona_name = ? AND channel = ?", personaName, channel).First(&record)

	now := time.Now()
	if result.Error == gorm.ErrRecordNotFound {
		record = entities.ImportProgress{
			PersonaName: personaName,
			Channel:     channel,
			Status:      entities.ImportRunRunning,
			StartedAt:   now,
			UpdatedAt:   now,
		}
		return r.db.Create(&record).Error
	} else if result.Error != nil {
		return result.Error
	}

	record.Status = entities.ImportRunRunning
	record.Percent = 0
	record.Message = ""
	record.Error = ""
	record.StartedAt = now
	record.UpdatedAt = now
	record.CompletedAt = nil

	return r.db.Save(&record).Error
}

// Update records the latest percent and status line for a channel.
// Implements ProgressRecorder.Update.
func (r *Repository) Update(personaName string, channel entities.ImportChannel, percent int, message string) error {
	return r.db.Model(&entities.ImportProgress{}).
		Where("persona_name = ? AND channel = ?", personaName, channel).
		Updates(map[string]any{
			"percent":    percent,
			"message":    message,
			"updated_at": time.Now(),
		}).Error
}

// Complete marks a channel as completed or failed.
// Implements ProgressRecorder.Complete.
func (r *Repository) Complete(personaName string, channel entities.ImportChannel, succeeded bool, errorMsg string) error {
	now := time.Now()
	status := entities.ImportRunCompleted
	if !succeeded {
		status = entities.ImportRunFailed
	}

	updates := map[string]any{
		"status":       status,
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.ImportProgress{}).
		Where("persona_name = ? AND channel = ?", personaName, channel).
		Updates(updates).Error
}

// Get returns the progress rows for a persona, one per channel.
func (r *Repository) Get(personaName string) ([]entities.ImportProgress, error) {
	var records []entities.ImportProgress
	err := r.db.Where("persona_name = ?", personaName).
		Order("channel").
		Find(&records).Error
	return records, err
}
