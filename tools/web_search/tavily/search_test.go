package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	var gotBody searchRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "First", "url": "https://a.example.com/1", "content": "snippet", "published_date": "2026-08-01"},
				{"title": "Second", "url": "https://b.example.org/1", "content": "more"},
			},
			"images": []map[string]any{
				{"url": "https://img.example.com/a.png", "description": "an image"},
			},
		})
	}))
	defer srv.Close()

	c := New(config.TavilyConfig{APIKey: "key-123", BaseURL: srv.URL})
	results, images, err := c.Search(context.Background(), "golang", 20, models.TopicNews)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody.Query != "golang" {
		t.Fatalf("query = %q", gotBody.Query)
	}
	if gotBody.MaxResults != 15 {
		t.Fatalf("max_results = %d, want clamped to the API limit 15", gotBody.MaxResults)
	}
	if gotBody.Topic != "news" {
		t.Fatalf("topic = %q, want news", gotBody.Topic)
	}
	if !gotBody.IncludeImages {
		t.Fatal("include_images must be requested")
	}

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].PublishedDate != "2026-08-01" {
		t.Fatalf("published_date = %q", results[0].PublishedDate)
	}
	if len(images) != 1 || images[0].Description != "an image" {
		t.Fatalf("images = %+v", images)
	}
}

func TestSearchGeneralTopicOmitted(t *testing.T) {
	t.Parallel()

	var gotBody searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	c := New(config.TavilyConfig{BaseURL: srv.URL})
	if _, _, err := c.Search(context.Background(), "q", 5, models.TopicGeneral); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotBody.Topic != "" {
		t.Fatalf("general topic must be omitted, got %q", gotBody.Topic)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(config.TavilyConfig{BaseURL: srv.URL})
	if _, _, err := c.Search(context.Background(), "q", 5, models.TopicGeneral); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
