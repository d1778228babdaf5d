// Package twitter interfaces with the twitter241 RapidAPI endpoints used to
// resolve a handle to an account and walk its timeline page by page.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://twitter241.p.rapidapi.com"
	rapidAPIHost   = "twitter241.p.rapidapi.com"

	defaultTimeout = 30 * time.Second
)

// ErrAccountNotFound is returned when the handle does not resolve to an account.
var ErrAccountNotFound = errors.New("twitter account not found")

// Client interfaces with the twitter241 RapidAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new twitter241 API client.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// Profile is the subset of account data the import pipeline needs.
type Profile struct {
	ID          string
	Description string
	AvatarURL   string
}

type userResponse struct {
	Result struct {
		Data struct {
			User struct {
				Result *struct {
					RestID string `json:"rest_id"`
					Legacy struct {
						Description          string `json:"description"`
						ProfileImageURLHTTPS string `json:"profile_image_url_https"`
					} `json:"legacy"`
				} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	} `json:"result"`
}

// UserByHandle resolves a handle to its account id, bio and avatar.
// Returns ErrAccountNotFound when the API has no such user.
func (c *Client) UserByHandle(ctx context.Context, handle string) (Profile, error) {
	endpoint := fmt.Sprintf("%s/user?username=%s", c.baseURL, url.QueryEscape(handle))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return Profile{}, err
	}

	var parsed userResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Profile{}, fmt.Errorf("decode user response: %w", err)
	}

	result := parsed.Result.Data.User.Result
	if result == nil || result.RestID == "" {
		return Profile{}, ErrAccountNotFound
	}

	return Profile{
		ID:          result.RestID,
		Description: result.Legacy.Description,
		AvatarURL:   result.Legacy.ProfileImageURLHTTPS,
	}, nil
}

// UserTweets fetches one timeline page for an account. The returned cursor is
// the continuation token for the next page; an empty cursor means the
// timeline is exhausted or the response carried no usable cursor.
func (c *Client) UserTweets(ctx context.Context, userID string, count int, cursor string) (map[string]any, string, error) {
	u, err := url.Parse(c.baseURL + "/user-tweets")
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("user", userID)
	q.Set("count", strconv.Itoa(count))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, "", err
	}

	var page map[string]any
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("decode timeline page: %w", err)
	}

	return page, bottomCursor(page), nil
}

// bottomCursor digs the continuation token out of a timeline page.
// A malformed or missing cursor field reads as end-of-stream.
func bottomCursor(page map[string]any) string {
	cursor, ok := page["cursor"].(map[string]any)
	if !ok {
		return ""
	}
	bottom, _ := cursor["bottom"].(string)
	return bottom
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", rapidAPIHost)

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
