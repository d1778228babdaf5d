package entities

import (
	"time"
)

type ImportChannel string

const (
	ChannelTwitter   ImportChannel = "twitter"
	ChannelFarcaster ImportChannel = "farcaster"
)

type ImportRunStatus string

const (
	ImportRunRunning   ImportRunStatus = "running"
	ImportRunCompleted ImportRunStatus = "completed"
	ImportRunFailed    ImportRunStatus = "failed"
)

// ImportProgress tracks one progress channel of an import run so the UI can
// render a bar per platform. One row per (persona, channel), reset on each run.
type ImportProgress struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PersonaName string          `gorm:"size:100;uniqueIndex:idx_import_progress_persona_channel" json:"persona_name"`
	Channel     ImportChannel   `gorm:"size:20;uniqueIndex:idx_import_progress_persona_channel" json:"channel"`
	Status      ImportRunStatus `gorm:"size:20" json:"status"`
	Percent     int             `json:"percent"`
	Message     string          `gorm:"size:512" json:"message,omitempty"`
	Error       string          `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (ImportProgress) TableName() string {
	return "import_progress"
}
