// Package vectorstore persists embedded content records for one persona and
// ranks them by cosine similarity at query time.
//
// A store is a directory holding a single records.json file. Records are
// append-only per identifier: once an external id is stored it is never
// re-embedded, overwritten or removed.
package vectorstore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const recordsFile = "records.json"

// Document is one embedded content record.
type Document struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Result pairs a document with its similarity score for a query.
type Result struct {
	Document Document
	Score    float64
}

// Store is a persistent, per-persona collection of embedded documents.
type Store struct {
	path  string
	docs  []Document
	index map[string]int
}

// Open loads the store at path, or returns an empty store if none exists yet.
// The directory is created lazily on first Add.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		index: make(map[string]int),
	}

	data, err := os.ReadFile(filepath.Join(path, recordsFile))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.docs); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", path, err)
	}
	for i, doc := range s.docs {
		s.index[doc.ID] = i
	}
	return s, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// Contains reports whether a document with the given id is already stored.
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// ExistingIDs returns the set of identifiers already present in the store.
func (s *Store) ExistingIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.docs))
	for id := range s.index {
		ids[id] = struct{}{}
	}
	return ids
}

// Add appends documents whose ids are not yet stored and persists the store.
// Documents with an already-present id are ignored, keeping the first stored
// copy intact.
func (s *Store) Add(docs []Document) error {
	added := 0
	for _, doc := range docs {
		if _, ok := s.index[doc.ID]; ok {
			continue
		}
		s.index[doc.ID] = len(s.docs)
		s.docs = append(s.docs, doc)
		added++
	}
	if added == 0 {
		return nil
	}
	return s.save()
}

// Search returns the k most similar documents to the query embedding,
// highest score first.
func (s *Store) Search(query []float32, k int) []Result {
	results := make([]Result, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, Result{
			Document: doc,
			Score:    cosineSimilarity(query, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}

func (s *Store) save() error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return fmt.Errorf("create store dir %s: %w", s.path, err)
	}

	data, err := json.Marshal(s.docs)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	// Write-then-rename so a crash mid-save never corrupts the store.
	target := filepath.Join(s.path, recordsFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
