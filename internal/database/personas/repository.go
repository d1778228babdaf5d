// Package personas provides database operations for the persona registry.
package personas

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/personachat/internal/entities"
)

// ErrNotFound is returned when no persona row matches the requested name.
var ErrNotFound = errors.New("persona not found")

// Repository handles all persona registry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new persona repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new persona row.
func (r *Repository) Create(persona *entities.Persona) error {
	return r.db.Create(persona).Error
}

// GetByName retrieves a persona by its display name.
func (r *Repository) GetByName(name string) (*entities.Persona, error) {
	var persona entities.Persona
	err := r.db.Where("name = ?", name).First(&persona).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &persona, nil
}

// ListReady returns every fully imported persona, ordered by id.
func (r *Repository) ListReady() ([]entities.Persona, error) {
	var result []entities.Persona
	err := r.db.Where("status = ?", entities.StatusFullyImported).
		Order("id").
		Find(&result).Error
	return result, err
}

// ListAll returns every persona row regardless of import status.
func (r *Repository) ListAll() ([]entities.Persona, error) {
	var result []entities.Persona
	err := r.db.Order("id").Find(&result).Error
	return result, err
}

// SetTwitterID backfills the resolved account id on a persona row that was
// registered before its first import (e.g. a seeded persona).
func (r *Repository) SetTwitterID(name, twitterID string) error {
	return r.db.Model(&entities.Persona{}).
		Where("name = ?", name).
		Update("twitter_id", twitterID).Error
}

// SetFarcasterID records a discovered linked account on the persona row.
// The link is persisted as soon as discovery succeeds, independent of how
// far the secondary pipeline later gets.
func (r *Repository) SetFarcasterID(name, farcasterID string) error {
	return r.db.Model(&entities.Persona{}).
		Where("name = ?", name).
		Update("farcaster_id", farcasterID).Error
}

// MarkFullyImported flips the status flag after all import pipelines succeeded.
func (r *Repository) MarkFullyImported(name string) error {
	return r.db.Model(&entities.Persona{}).
		Where("name = ?", name).
		Update("status", entities.StatusFullyImported).Error
}
