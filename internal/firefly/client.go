// Package firefly interfaces with the Firefly API for cross-platform link
// discovery and the Farcaster cast timeline.
package firefly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api-dev.firefly.land"

	defaultTimeout = 30 * time.Second
)

// Client interfaces with the Firefly wallet and timeline endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewClient creates a new Firefly API client. The auth token is only needed
// for timeline requests; link discovery is unauthenticated.
func NewClient(authToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:   defaultBaseURL,
		authToken: authToken,
	}
}

type profileInfoResponse struct {
	Data *struct {
		FarcasterProfiles []struct {
			FID json.Number `json:"fid"`
		} `json:"farcasterProfiles"`
	} `json:"data"`
}

// FarcasterIDByTwitterID probes whether a twitter account has a linked
// Farcaster profile. Returns an empty id when no link exists.
func (c *Client) FarcasterIDByTwitterID(ctx context.Context, twitterID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/wallet/profileinfo?twitterId=%s", c.baseURL, url.QueryEscape(twitterID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed profileInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode profile info: %w", err)
	}

	if parsed.Data == nil || len(parsed.Data.FarcasterProfiles) == 0 {
		return "", nil
	}
	return parsed.Data.FarcasterProfiles[0].FID.String(), nil
}

// Timeline fetches one page of casts for a Farcaster id. The returned cursor
// continues pagination; empty means exhausted or no usable cursor.
func (c *Client) Timeline(ctx context.Context, fid string, cursor string) (map[string]any, string, error) {
	payload := map[string]any{
		"fids": []string{fid},
	}
	if cursor != "" {
		payload["cursor"] = cursor
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode timeline request: %w", err)
	}

	endpoint := c.baseURL + "/v2/user/timeline/farcaster"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, "", err
	}

	var page map[string]any
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("decode timeline page: %w", err)
	}

	return page, timelineCursor(page), nil
}

// timelineCursor digs the continuation token out of a cast timeline page.
// A malformed or missing cursor field reads as end-of-stream.
func timelineCursor(page map[string]any) string {
	data, ok := page["data"].(map[string]any)
	if !ok {
		return ""
	}
	cursor, _ := data["cursor"].(string)
	return cursor
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
