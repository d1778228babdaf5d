package importer

import (
	"context"
	"fmt"
	"log"
	"time"
)

// PageFunc fetches one timeline page for the cursor and returns the page
// plus the continuation cursor. An empty cursor signals end-of-stream.
type PageFunc func(ctx context.Context, cursor string) (page map[string]any, next string, err error)

// FetchAll walks a paginated timeline page by page, threading the cursor from
// each response into the next request. Pages are requested strictly in
// sequence with a fixed delay in between; the upstream APIs are rate-limited
// and must not be hammered.
//
// The walk stops when the page budget is reached, a page yields no cursor, or
// a request fails. A failure does not discard progress: every page fetched so
// far is returned and flows downstream.
func FetchAll(ctx context.Context, fetch PageFunc, maxPages int, delay time.Duration, progress ProgressFunc, noun string) []map[string]any {
	if progress == nil {
		progress = NopProgress
	}

	var pages []map[string]any
	cursor := ""

	for i := 0; i < maxPages; i++ {
		page, next, err := fetch(ctx, cursor)
		if err != nil {
			log.Printf("Fetching page %d of %s failed: %v (keeping %d pages)", i+1, noun, err, len(pages))
			break
		}
		pages = append(pages, page)

		progress((i+1)*100/maxPages, fmt.Sprintf("Processed %d pages of %s...", i+1, noun))

		if next == "" {
			break
		}
		cursor = next

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	return pages
}
