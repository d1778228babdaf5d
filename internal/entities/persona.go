package entities

import (
	"time"
)

type ImportStatus int

const (
	StatusNotImported   ImportStatus = 0
	StatusFullyImported ImportStatus = 9
)

// Persona is a registry row for one public figure whose posts are indexed
// for retrieval-augmented chat.
type Persona struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Avatar string `gorm:"size:512" json:"avatar"`

	// Prompt is the system message used when answering as this persona.
	Prompt string `gorm:"type:text;not null" json:"prompt"`

	// PostURLPrefix links rendered replies back to the source timeline.
	PostURLPrefix string `gorm:"size:255" json:"post_url_prefix"`

	// StorePath is the on-disk location of this persona's content store.
	StorePath string `gorm:"size:255;not null" json:"-"`

	TwitterID   string `gorm:"size:64" json:"twitter_id,omitempty"`
	FarcasterID string `gorm:"size:64" json:"farcaster_id,omitempty"`

	// Status transitions StatusNotImported -> StatusFullyImported at most
	// once per import run, and only after every triggered pipeline returned.
	Status ImportStatus `gorm:"not null;default:0" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Persona) TableName() string {
	return "personas"
}
