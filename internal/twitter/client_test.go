package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		apiKey:     "test-key",
	}
}

func TestUserByHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("username"); got != "alice" {
			t.Errorf("username = %q, want alice", got)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		w.Write([]byte(`{
			"result": {
				"data": {
					"user": {
						"result": {
							"rest_id": "42",
							"legacy": {
								"description": "a test account.",
								"profile_image_url_https": "https://img/alice.png"
							}
						}
					}
				}
			}
		}`))
	}))
	defer server.Close()

	profile, err := testClient(server).UserByHandle(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "42" {
		t.Errorf("id = %q, want 42", profile.ID)
	}
	if profile.Description != "a test account." {
		t.Errorf("description = %q", profile.Description)
	}
	if profile.AvatarURL != "https://img/alice.png" {
		t.Errorf("avatar = %q", profile.AvatarURL)
	}
}

func TestUserByHandleNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"data": {"user": {}}}}`))
	}))
	defer server.Close()

	_, err := testClient(server).UserByHandle(context.Background(), "nobody")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUserByHandleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server).UserByHandle(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestUserTweetsCursorHandling(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCursor string
	}{
		{
			name:       "cursor present",
			body:       `{"cursor": {"bottom": "CURSOR-2", "top": "ignored"}}`,
			wantCursor: "CURSOR-2",
		},
		{
			name:       "cursor missing",
			body:       `{"result": {}}`,
			wantCursor: "",
		},
		{
			name:       "cursor not an object",
			body:       `{"cursor": "bare string"}`,
			wantCursor: "",
		},
		{
			name:       "bottom not a string",
			body:       `{"cursor": {"bottom": 17}}`,
			wantCursor: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, cursor, err := testClient(server).UserTweets(context.Background(), "42", 20, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cursor != tt.wantCursor {
				t.Errorf("cursor = %q, want %q", cursor, tt.wantCursor)
			}
		})
	}
}

func TestUserTweetsSendsCursorParam(t *testing.T) {
	var gotCursor, gotUser, gotCount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotCursor = q.Get("cursor")
		gotUser = q.Get("user")
		gotCount = q.Get("count")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server)

	if _, _, err := client.UserTweets(context.Background(), "42", 20, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCursor != "" {
		t.Errorf("first page must not send a cursor, got %q", gotCursor)
	}
	if gotUser != "42" || gotCount != "20" {
		t.Errorf("user=%q count=%q", gotUser, gotCount)
	}

	if _, _, err := client.UserTweets(context.Background(), "42", 20, "CURSOR-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCursor != "CURSOR-2" {
		t.Errorf("cursor = %q, want CURSOR-2", gotCursor)
	}
}
