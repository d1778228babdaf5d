package vectorstore

import (
	"path/filepath"
	"testing"
)

func TestOpenMissingStoreIsEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d documents", store.Len())
	}
}

func TestAddPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	docs := []Document{
		{ID: "1", Platform: "twitter", Text: "first", Embedding: []float32{1, 0}},
		{ID: "2", Platform: "twitter", Text: "second", Embedding: []float32{0, 1}},
	}
	if err := store.Add(docs); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 documents after reopen, got %d", reopened.Len())
	}
	if !reopened.Contains("1") || !reopened.Contains("2") {
		t.Error("stored ids missing after reopen")
	}
}

func TestAddIgnoresDuplicateIDs(t *testing.T) {
	dir := t.TempDir()

	store, _ := Open(dir)
	if err := store.Add([]Document{{ID: "x", Text: "original", Embedding: []float32{1}}}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add([]Document{{ID: "x", Text: "replacement", Embedding: []float32{2}}}); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 document, got %d", store.Len())
	}
	results := store.Search([]float32{1}, 1)
	if results[0].Document.Text != "original" {
		t.Errorf("first stored copy was replaced: %q", results[0].Document.Text)
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store, _ := Open(t.TempDir())
	err := store.Add([]Document{
		{ID: "east", Text: "east", Embedding: []float32{1, 0}},
		{ID: "north", Text: "north", Embedding: []float32{0, 1}},
		{ID: "northeast", Text: "northeast", Embedding: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	results := store.Search([]float32{1, 0.1}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "east" {
		t.Errorf("best match = %s, want east", results[0].Document.ID)
	}
	if results[1].Document.ID != "northeast" {
		t.Errorf("second match = %s, want northeast", results[1].Document.ID)
	}
	if results[0].Score <= results[1].Score {
		t.Error("results not ordered by descending score")
	}
}

func TestSearchHandlesShortStores(t *testing.T) {
	store, _ := Open(t.TempDir())
	if got := store.Search([]float32{1}, 3); len(got) != 0 {
		t.Errorf("empty store returned %d results", len(got))
	}

	if err := store.Add([]Document{{ID: "only", Embedding: []float32{1}}}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := store.Search([]float32{1}, 3); len(got) != 1 {
		t.Errorf("expected 1 result, got %d", len(got))
	}
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("mismatched dimensions scored %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector scored %v", got)
	}
	if got := cosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors scored %v", got)
	}
}
