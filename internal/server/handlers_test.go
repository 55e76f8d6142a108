package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_retrieve"
	retrievemodels "github.com/fetchkit/fetchkit/tools/web_retrieve/models"
	"github.com/fetchkit/fetchkit/tools/web_search"
	searchmodels "github.com/fetchkit/fetchkit/tools/web_search/models"
)

type stubSearcher struct {
	results []searchmodels.Result
}

func (s *stubSearcher) Search(context.Context, string, int, searchmodels.Topic) ([]searchmodels.Result, []searchmodels.Image, error) {
	return append([]searchmodels.Result(nil), s.results...), nil, nil
}

type stubPrimary struct {
	page retrievemodels.Page
}

func (s *stubPrimary) Extract(context.Context, string, int, string, bool) (retrievemodels.Page, error) {
	return s.page, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(context.Context, string, string) (retrievemodels.Page, error) {
	return retrievemodels.Page{}, nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(context.Context, string) (string, error) { return "", nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Address: ":0", StreamEnabled: true},
		Progress:  config.ProgressConfig{Sink: "none"},
		Telemetry: config.TelemetryConfig{Enabled: false},
	}
	s := New(cfg)
	s.search = web_search.NewWithProviders(cfg.Search,
		&stubSearcher{results: []searchmodels.Result{{URL: "https://a.example.com/1", Title: "hit"}}},
		&stubSearcher{}, nil, nil, nil)
	s.retrieve = web_retrieve.NewWithTiers(cfg.Retrieve,
		&stubPrimary{page: retrievemodels.Page{Title: "Page", Content: "text"}},
		stubRenderer{}, stubFetcher{}, nil, nil, nil)
	return s
}

func TestHandleSearch(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"queries":["golang"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp searchmodels.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Searches) != 1 || resp.Searches[0].Provider != searchmodels.ProviderTavily {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleSearchRejectsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"queries":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRetrieve(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/retrieve", strings.NewReader(`{"urls":["https://example.com/a"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp retrievemodels.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 1 || resp.Sources[0] != retrievemodels.SourceExa {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleRetrieveRejectsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/retrieve", strings.NewReader(`{"urls":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchStreamWritesEventFrames(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search/stream", strings.NewReader(`{"queries":["golang"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: search_started") {
		t.Fatalf("missing started frame:\n%s", body)
	}
	if !strings.Contains(body, "event: search_completed") {
		t.Fatalf("missing completed frame:\n%s", body)
	}
	if !strings.Contains(body, "event: result") {
		t.Fatalf("missing terminal result frame:\n%s", body)
	}
}

func TestRetrieveStreamWritesResult(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/retrieve/stream", strings.NewReader(`{"urls":["https://example.com/a"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "event: retrieve_started") || !strings.Contains(body, "event: result") {
		t.Fatalf("incomplete stream:\n%s", body)
	}
}
