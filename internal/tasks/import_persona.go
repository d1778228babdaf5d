package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/mrlokans/personachat/internal/importer"
)

// ImportPersonaTask runs the full import pipeline for one handle in the
// background so the HTTP trigger can return immediately.
type ImportPersonaTask struct {
	Handle string `json:"handle"`

	// Refresh re-runs the pipeline even for an already imported persona.
	Refresh bool `json:"refresh"`
}

// Config returns the queue configuration for persona import tasks.
// MaxAttempts is 1: the pipeline is never retried automatically, a retry is
// an explicit re-invocation (safe because ingestion is idempotent).
func (t ImportPersonaTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_persona",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportPersonaProcessor creates a processor function for ImportPersonaTask.
func ImportPersonaProcessor(svc *importer.Service) backlite.QueueProcessor[ImportPersonaTask] {
	return func(ctx context.Context, task ImportPersonaTask) error {
		run := svc.Import
		if task.Refresh {
			run = svc.Refresh
		}

		result, err := run(ctx, task.Handle)
		if errors.Is(err, importer.ErrImportInProgress) {
			log.Printf("[TASK] Import of %s skipped: already in progress", task.Handle)
			return nil
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", task.Handle, err)
		}

		if result.AlreadyImported {
			log.Printf("[TASK] Persona %s was already fully imported", task.Handle)
		} else {
			log.Printf("[TASK] Imported persona %s: %d created, %d skipped (farcaster linked: %v)",
				task.Handle, result.Created, result.Skipped, result.FarcasterLinked)
		}

		return nil
	}
}

// NewImportPersonaQueue creates a backlite queue for persona import tasks.
func NewImportPersonaQueue(svc *importer.Service) backlite.Queue {
	return backlite.NewQueue(ImportPersonaProcessor(svc))
}
