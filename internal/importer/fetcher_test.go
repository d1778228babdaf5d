package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// pagedStub serves a scripted sequence of pages.
type pagedStub struct {
	pages    []map[string]any
	cursors  []string
	errAt    int // request index (1-based) that fails; 0 = never
	requests int
}

func (s *pagedStub) fetch(_ context.Context, cursor string) (map[string]any, string, error) {
	s.requests++
	if s.errAt > 0 && s.requests == s.errAt {
		return nil, "", errors.New("boom")
	}
	i := s.requests - 1
	return s.pages[i], s.cursors[i], nil
}

func scriptedPages(n int, lastCursorEmpty bool) *pagedStub {
	stub := &pagedStub{}
	for i := 0; i < n; i++ {
		stub.pages = append(stub.pages, map[string]any{"page": fmt.Sprintf("%d", i+1)})
		cursor := fmt.Sprintf("cursor-%d", i+1)
		if lastCursorEmpty && i == n-1 {
			cursor = ""
		}
		stub.cursors = append(stub.cursors, cursor)
	}
	return stub
}

func TestFetchAllStopsOnEmptyCursor(t *testing.T) {
	// N pages with valid cursors, then one page with an empty cursor:
	// exactly N+1 requests and N+1 pages.
	for _, n := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			stub := scriptedPages(n+1, true)

			pages := FetchAll(context.Background(), stub.fetch, 50, 0, nil, "tweets")

			if stub.requests != n+1 {
				t.Errorf("expected %d requests, got %d", n+1, stub.requests)
			}
			if len(pages) != n+1 {
				t.Errorf("expected %d pages, got %d", n+1, len(pages))
			}
		})
	}
}

func TestFetchAllStopsAtPageBudget(t *testing.T) {
	stub := scriptedPages(10, false)

	pages := FetchAll(context.Background(), stub.fetch, 4, 0, nil, "tweets")

	if stub.requests != 4 {
		t.Errorf("expected 4 requests, got %d", stub.requests)
	}
	if len(pages) != 4 {
		t.Errorf("expected 4 pages, got %d", len(pages))
	}
}

func TestFetchAllKeepsPagesOnFailure(t *testing.T) {
	// Pages 1..k succeed, page k+1 fails: exactly k pages come back.
	stub := scriptedPages(10, false)
	stub.errAt = 4

	pages := FetchAll(context.Background(), stub.fetch, 10, 0, nil, "tweets")

	if len(pages) != 3 {
		t.Errorf("expected 3 retained pages, got %d", len(pages))
	}
}

func TestFetchAllReportsProgressPerPage(t *testing.T) {
	stub := scriptedPages(5, true)

	var percents []int
	var messages []string
	progress := func(percent int, message string) {
		percents = append(percents, percent)
		messages = append(messages, message)
	}

	FetchAll(context.Background(), stub.fetch, 10, 0, progress, "casts")

	expected := []int{10, 20, 30, 40, 50}
	if len(percents) != len(expected) {
		t.Fatalf("expected %d progress calls, got %d", len(expected), len(percents))
	}
	for i, want := range expected {
		if percents[i] != want {
			t.Errorf("progress call %d: expected %d%%, got %d%%", i, want, percents[i])
		}
	}
	if messages[0] != "Processed 1 pages of casts..." {
		t.Errorf("unexpected progress message: %q", messages[0])
	}
}

func TestFetchAllZeroBudget(t *testing.T) {
	stub := scriptedPages(1, false)

	pages := FetchAll(context.Background(), stub.fetch, 0, 0, nil, "tweets")

	if stub.requests != 0 {
		t.Errorf("expected no requests, got %d", stub.requests)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}
