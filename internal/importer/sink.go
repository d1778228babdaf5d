package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/personachat/internal/vectorstore"
)

// Embedder turns texts into embedding vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Outcome reports what an ingestion run did.
type Outcome struct {
	Created int
	Skipped int
}

// Sink loads extracted records into a persona's content store, embedding and
// persisting only records whose identifier is not stored yet. Ingestion is
// idempotent per identifier: re-running the same batch creates nothing new.
type Sink struct {
	embedder Embedder
}

// NewSink creates a sink backed by the given embedder.
func NewSink(embedder Embedder) *Sink {
	return &Sink{embedder: embedder}
}

// Ingest appends the new partition of records to the store at storePath.
// The store afterwards holds the identifier-deduplicated union of its prior
// contents and the input; the first copy of any identifier wins.
func (s *Sink) Ingest(ctx context.Context, storePath string, records []Record) (Outcome, error) {
	store, err := vectorstore.Open(storePath)
	if err != nil {
		return Outcome{}, err
	}

	existing := store.ExistingIDs()

	var fresh []Record
	skipped := 0
	for _, record := range records {
		if _, ok := existing[record.ExternalID]; ok {
			skipped++
			continue
		}
		existing[record.ExternalID] = struct{}{}
		fresh = append(fresh, record)
	}

	if len(fresh) == 0 {
		log.Printf("Ingestion into %s: nothing new (%d duplicates)", storePath, skipped)
		return Outcome{Skipped: skipped}, nil
	}

	texts := make([]string, len(fresh))
	for i, record := range fresh {
		texts[i] = record.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return Outcome{}, fmt.Errorf("embed %d records: %w", len(fresh), err)
	}

	docs := make([]vectorstore.Document, len(fresh))
	for i, record := range fresh {
		docs[i] = vectorstore.Document{
			ID:        record.ExternalID,
			Platform:  string(record.Platform),
			Text:      record.Text,
			Embedding: vectors[i],
		}
	}

	if err := store.Add(docs); err != nil {
		return Outcome{}, fmt.Errorf("store %d records: %w", len(docs), err)
	}

	log.Printf("Ingestion into %s: %d created, %d skipped", storePath, len(fresh), skipped)
	return Outcome{Created: len(fresh), Skipped: skipped}, nil
}
