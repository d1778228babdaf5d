// Package importer implements the cross-platform persona import pipeline:
// cursor-paginated fetching, text extraction and deduplicated ingestion into
// the persona's content store, orchestrated across twitter and any linked
// Farcaster account.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/personachat/internal/database"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/entities"
	"github.com/mrlokans/personachat/internal/twitter"
)

// ErrImportInProgress is returned when an import for the same persona is
// already running in this process.
var ErrImportInProgress = errors.New("import already in progress for this persona")

// TwitterAPI is the slice of the twitter client the orchestrator needs.
type TwitterAPI interface {
	UserByHandle(ctx context.Context, handle string) (twitter.Profile, error)
	UserTweets(ctx context.Context, userID string, count int, cursor string) (map[string]any, string, error)
}

// FireflyAPI is the slice of the Firefly client the orchestrator needs.
type FireflyAPI interface {
	FarcasterIDByTwitterID(ctx context.Context, twitterID string) (string, error)
	Timeline(ctx context.Context, fid string, cursor string) (map[string]any, string, error)
}

// Registry is the persona registry surface the orchestrator reads and writes.
type Registry interface {
	GetByName(name string) (*entities.Persona, error)
	Create(persona *entities.Persona) error
	SetTwitterID(name, twitterID string) error
	SetFarcasterID(name, farcasterID string) error
	MarkFullyImported(name string) error
}

// ProgressRecorder persists per-channel progress so a UI can poll two bars.
// Recorder failures are logged and never abort an import.
type ProgressRecorder interface {
	Start(personaName string, channel entities.ImportChannel) error
	Update(personaName string, channel entities.ImportChannel, percent int, message string) error
	Complete(personaName string, channel entities.ImportChannel, succeeded bool, errorMsg string) error
}

// Ingestor loads extracted records into a content store.
type Ingestor interface {
	Ingest(ctx context.Context, storePath string, records []Record) (Outcome, error)
}

// Config bounds one platform pipeline.
type Config struct {
	MaxPages  int
	PageSize  int
	RateDelay time.Duration
	StoreDir  string
}

// Result summarizes an import run.
type Result struct {
	PersonaName     string
	AlreadyImported bool
	Created         int
	Skipped         int
	FarcasterLinked bool
}

// Service orchestrates persona imports. Pipelines within one run execute
// strictly sequentially; concurrent runs for the same persona are rejected.
type Service struct {
	registry Registry
	progress ProgressRecorder
	twitter  TwitterAPI
	firefly  FireflyAPI
	sink     Ingestor
	cfg      Config

	mu      sync.Mutex
	running map[string]struct{}
}

// NewService creates the import orchestrator.
func NewService(registry Registry, progress ProgressRecorder, tw TwitterAPI, ff FireflyAPI, sink Ingestor, cfg Config) *Service {
	return &Service{
		registry: registry,
		progress: progress,
		twitter:  tw,
		firefly:  ff,
		sink:     sink,
		cfg:      cfg,
		running:  make(map[string]struct{}),
	}
}

// Import runs the full pipeline for a handle. A persona that is already
// fully imported returns immediately with no network activity.
func (s *Service) Import(ctx context.Context, handle string) (*Result, error) {
	return s.run(ctx, handle, false)
}

// Refresh re-runs the pipeline even for a fully imported persona. Safe to
// call repeatedly: ingestion is idempotent per identifier.
func (s *Service) Refresh(ctx context.Context, handle string) (*Result, error) {
	return s.run(ctx, handle, true)
}

func (s *Service) run(ctx context.Context, handle string, force bool) (*Result, error) {
	if err := s.acquire(handle); err != nil {
		return nil, err
	}
	defer s.release(handle)

	persona, err := s.registry.GetByName(handle)
	if err != nil && !errors.Is(err, personas.ErrNotFound) {
		return nil, err
	}

	if persona != nil && persona.Status == entities.StatusFullyImported && !force {
		log.Printf("Persona %s is already fully imported, skipping", handle)
		return &Result{PersonaName: handle, AlreadyImported: true}, nil
	}

	if persona == nil {
		persona, err = s.createFromProfile(ctx, handle)
		if err != nil {
			return nil, err
		}
	} else if persona.TwitterID == "" {
		// Seeded personas exist before their first import and carry no
		// resolved account yet.
		profile, err := s.twitter.UserByHandle(ctx, persona.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve twitter user %s: %w", persona.Name, err)
		}
		if err := s.registry.SetTwitterID(persona.Name, profile.ID); err != nil {
			return nil, fmt.Errorf("persist twitter id: %w", err)
		}
		persona.TwitterID = profile.ID
	}

	result := &Result{PersonaName: persona.Name}

	// Primary pipeline: twitter timeline.
	outcome, err := s.runTwitterPipeline(ctx, persona)
	if err != nil {
		return nil, err
	}
	result.Created += outcome.Created
	result.Skipped += outcome.Skipped

	// Secondary pipeline: only if a linked Farcaster account is discovered.
	// A discovery failure reads as "no link" and never fails the run.
	fid, err := s.firefly.FarcasterIDByTwitterID(ctx, persona.TwitterID)
	if err != nil {
		log.Printf("Farcaster link discovery for %s failed: %v", persona.Name, err)
		fid = ""
	}

	if fid != "" {
		result.FarcasterLinked = true
		// The link is recorded as soon as it is discovered, regardless of
		// how far the cast import below gets.
		if err := s.registry.SetFarcasterID(persona.Name, fid); err != nil {
			return nil, fmt.Errorf("persist farcaster id: %w", err)
		}
		outcome, err := s.runFarcasterPipeline(ctx, persona, fid)
		if err != nil {
			return nil, err
		}
		result.Created += outcome.Created
		result.Skipped += outcome.Skipped
	} else {
		// The row has to exist before Update/Complete: the recorder only
		// touches rows created by Start.
		s.recordStart(persona.Name, entities.ChannelFarcaster)
		s.recordUpdate(persona.Name, entities.ChannelFarcaster, 100, "Farcaster profile not found.")
		s.recordComplete(persona.Name, entities.ChannelFarcaster, true, "")
	}

	if err := s.registry.MarkFullyImported(persona.Name); err != nil {
		return nil, fmt.Errorf("mark fully imported: %w", err)
	}
	log.Printf("Persona %s fully imported: %d created, %d skipped", persona.Name, result.Created, result.Skipped)

	return result, nil
}

// createFromProfile resolves the handle against the identity lookup and
// creates the registry row. An unknown handle fails the whole run.
func (s *Service) createFromProfile(ctx context.Context, handle string) (*entities.Persona, error) {
	profile, err := s.twitter.UserByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("resolve twitter user %s: %w", handle, err)
	}

	persona := &entities.Persona{
		Name:          handle,
		Avatar:        profile.AvatarURL,
		Prompt:        "You are " + profile.Description,
		PostURLPrefix: "https://x.com/" + handle,
		StorePath:     database.StorePathFor(s.cfg.StoreDir, handle),
		TwitterID:     profile.ID,
		Status:        entities.StatusNotImported,
	}
	if err := s.registry.Create(persona); err != nil {
		return nil, fmt.Errorf("create persona row: %w", err)
	}
	return persona, nil
}

func (s *Service) runTwitterPipeline(ctx context.Context, persona *entities.Persona) (Outcome, error) {
	s.recordStart(persona.Name, entities.ChannelTwitter)
	s.recordUpdate(persona.Name, entities.ChannelTwitter, 1, fmt.Sprintf("Successfully found Twitter user @%s", persona.Name))

	fetch := func(ctx context.Context, cursor string) (map[string]any, string, error) {
		return s.twitter.UserTweets(ctx, persona.TwitterID, s.cfg.PageSize, cursor)
	}
	pages := FetchAll(ctx, fetch, s.cfg.MaxPages, s.cfg.RateDelay,
		s.channelProgress(persona.Name, entities.ChannelTwitter), "tweets")

	records := ExtractTweets(pages)
	s.recordUpdate(persona.Name, entities.ChannelTwitter, 100, "Initializing embeddings, please wait...")

	outcome, err := s.sink.Ingest(ctx, persona.StorePath, records)
	if err != nil {
		s.recordComplete(persona.Name, entities.ChannelTwitter, false, err.Error())
		return Outcome{}, fmt.Errorf("ingest tweets for %s: %w", persona.Name, err)
	}

	s.recordComplete(persona.Name, entities.ChannelTwitter, true, "")
	return outcome, nil
}

func (s *Service) runFarcasterPipeline(ctx context.Context, persona *entities.Persona, fid string) (Outcome, error) {
	s.recordStart(persona.Name, entities.ChannelFarcaster)

	fetch := func(ctx context.Context, cursor string) (map[string]any, string, error) {
		return s.firefly.Timeline(ctx, fid, cursor)
	}
	pages := FetchAll(ctx, fetch, s.cfg.MaxPages, s.cfg.RateDelay,
		s.channelProgress(persona.Name, entities.ChannelFarcaster), "casts")

	records := ExtractCasts(pages)
	s.recordUpdate(persona.Name, entities.ChannelFarcaster, 100, "Initializing embeddings, please wait...")

	outcome, err := s.sink.Ingest(ctx, persona.StorePath, records)
	if err != nil {
		s.recordComplete(persona.Name, entities.ChannelFarcaster, false, err.Error())
		return Outcome{}, fmt.Errorf("ingest casts for %s: %w", persona.Name, err)
	}

	s.recordComplete(persona.Name, entities.ChannelFarcaster, true, "")
	return outcome, nil
}

func (s *Service) acquire(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[name]; busy {
		return ErrImportInProgress
	}
	s.running[name] = struct{}{}
	return nil
}

func (s *Service) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, name)
}

func (s *Service) channelProgress(name string, channel entities.ImportChannel) ProgressFunc {
	return func(percent int, message string) {
		s.recordUpdate(name, channel, percent, message)
	}
}

func (s *Service) recordStart(name string, channel entities.ImportChannel) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Start(name, channel); err != nil {
		log.Printf("Progress start for %s/%s failed: %v", name, channel, err)
	}
}

func (s *Service) recordUpdate(name string, channel entities.ImportChannel, percent int, message string) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Update(name, channel, percent, message); err != nil {
		log.Printf("Progress update for %s/%s failed: %v", name, channel, err)
	}
}

func (s *Service) recordComplete(name string, channel entities.ImportChannel, succeeded bool, errorMsg string) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Complete(name, channel, succeeded, errorMsg); err != nil {
		log.Printf("Progress complete for %s/%s failed: %v", name, channel, err)
	}
}
