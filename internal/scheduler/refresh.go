// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/tasks"
)

// RefreshScheduler periodically re-imports fully imported personas so their
// content stores pick up new posts. Re-imports are safe to repeat because
// ingestion is idempotent per external id.
type RefreshScheduler struct {
	personas   *personas.Repository
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewRefreshScheduler creates a new scheduler instance.
func NewRefreshScheduler(repo *personas.Repository, taskClient *tasks.Client, schedule string) *RefreshScheduler {
	return &RefreshScheduler{
		personas:   repo,
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job with '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Persona refresh scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Persona refresh scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next refresh will occur.
func (s *RefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runRefresh enqueues one refresh import per ready persona. The task queue
// runs them one at a time; the upstream APIs are rate-limited.
func (s *RefreshScheduler) runRefresh() {
	ready, err := s.personas.ListReady()
	if err != nil {
		log.Printf("Persona refresh: failed to list personas: %v", err)
		return
	}

	if len(ready) == 0 {
		log.Printf("Persona refresh: no fully imported personas to refresh")
		return
	}

	for _, persona := range ready {
		task := tasks.ImportPersonaTask{Handle: persona.Name, Refresh: true}
		if _, err := s.taskClient.Add(task).Save(); err != nil {
			log.Printf("Persona refresh: failed to enqueue %s: %v", persona.Name, err)
			continue
		}
	}
	log.Printf("Persona refresh: enqueued %d refresh imports", len(ready))
}
