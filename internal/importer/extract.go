package importer

// Platform tags which timeline a record came from.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFarcaster Platform = "farcaster"
)

// Record is one ingestible unit of content recovered from a raw page.
type Record struct {
	ExternalID string
	Platform   Platform
	Text       string
}

// ExtractTweets recovers (id, text) records from raw twitter timeline pages.
//
// The page layout is deeply nested and not worth modeling: instead the pages
// are walked as a generic tree. A node's "rest_id" sets the identifier
// carried into its descendants. A "text" field holds the complete body of a
// long tweet and wins over "full_text", which the API truncates in that case;
// only the first body found per identifier is emitted. Nodes without an
// inherited identifier (e.g. "who to follow" suggestions) are skipped.
func ExtractTweets(pages []map[string]any) []Record {
	seen := make(map[string]struct{})
	var records []Record
	for _, page := range pages {
		walkTweets(page, "", seen, &records)
	}
	return records
}

func walkTweets(node any, currentID string, seen map[string]struct{}, out *[]Record) {
	switch n := node.(type) {
	case map[string]any:
		localID := currentID
		if id, ok := n["rest_id"].(string); ok && id != "" {
			localID = id
		}

		emitTweet(localID, n["text"], seen, out)
		emitTweet(localID, n["full_text"], seen, out)

		for key, value := range n {
			switch key {
			case "rest_id", "text", "full_text":
				continue
			}
			walkTweets(value, localID, seen, out)
		}

	case []any:
		for _, item := range n {
			walkTweets(item, currentID, seen, out)
		}
	}
}

func emitTweet(id string, value any, seen map[string]struct{}, out *[]Record) {
	text, ok := value.(string)
	if !ok || id == "" {
		return
	}
	if _, dup := seen[id]; dup {
		return
	}
	seen[id] = struct{}{}
	*out = append(*out, Record{ExternalID: id, Platform: PlatformTwitter, Text: text})
}

// ExtractCasts recovers (hash, text) records from raw Farcaster timeline
// pages. Each page carries a data.casts list; malformed pages and malformed
// casts yield zero records rather than an error.
func ExtractCasts(pages []map[string]any) []Record {
	var records []Record
	for _, page := range pages {
		data, ok := page["data"].(map[string]any)
		if !ok {
			continue
		}
		casts, ok := data["casts"].([]any)
		if !ok {
			continue
		}
		for _, item := range casts {
			cast, ok := item.(map[string]any)
			if !ok {
				continue
			}
			hash, ok := cast["hash"].(string)
			if !ok || hash == "" {
				continue
			}
			text, ok := cast["text"].(string)
			if !ok {
				continue
			}
			records = append(records, Record{ExternalID: hash, Platform: PlatformFarcaster, Text: text})
		}
	}
	return records
}
