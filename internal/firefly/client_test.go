package firefly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		authToken:  "test-token",
	}
}

func TestFarcasterIDByTwitterID(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantFID string
	}{
		{
			name:    "linked profile",
			body:    `{"data": {"farcasterProfiles": [{"fid": 777}]}}`,
			wantFID: "777",
		},
		{
			name:    "fid as string",
			body:    `{"data": {"farcasterProfiles": [{"fid": "777"}]}}`,
			wantFID: "777",
		},
		{
			name:    "no profiles",
			body:    `{"data": {"farcasterProfiles": []}}`,
			wantFID: "",
		},
		{
			name:    "no data",
			body:    `{}`,
			wantFID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v2/wallet/profileinfo" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("twitterId"); got != "42" {
					t.Errorf("twitterId = %q, want 42", got)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			fid, err := testClient(server).FarcasterIDByTwitterID(context.Background(), "42")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fid != tt.wantFID {
				t.Errorf("fid = %q, want %q", fid, tt.wantFID)
			}
		})
	}
}

func TestFarcasterIDServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server).FarcasterIDByTwitterID(context.Background(), "42")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestTimelineRequestShape(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v2/user/timeline/farcaster" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"data": {"casts": [], "cursor": "NEXT"}}`))
	}))
	defer server.Close()

	client := testClient(server)

	_, cursor, err := client.Timeline(context.Background(), "777", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "test-token" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if _, ok := gotPayload["cursor"]; ok {
		t.Error("first page must not send a cursor")
	}
	fids, _ := gotPayload["fids"].([]any)
	if len(fids) != 1 || fids[0] != "777" {
		t.Errorf("fids = %v, want [777]", fids)
	}
	if cursor != "NEXT" {
		t.Errorf("cursor = %q, want NEXT", cursor)
	}

	if _, _, err := client.Timeline(context.Background(), "777", "NEXT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPayload["cursor"] != "NEXT" {
		t.Errorf("second request cursor = %v, want NEXT", gotPayload["cursor"])
	}
}

func TestTimelineCursorHandling(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCursor string
	}{
		{"cursor present", `{"data": {"cursor": "C1"}}`, "C1"},
		{"cursor missing", `{"data": {"casts": []}}`, ""},
		{"data missing", `{}`, ""},
		{"cursor not a string", `{"data": {"cursor": 5}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, cursor, err := testClient(server).Timeline(context.Background(), "777", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cursor != tt.wantCursor {
				t.Errorf("cursor = %q, want %q", cursor, tt.wantCursor)
			}
		})
	}
}
