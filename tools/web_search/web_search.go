// Package web_search runs batches of independent searches against a
// primary hosted capability with a self-hosted fallback, deduplicates
// what comes back, and reports progress as each query settles.
package web_search

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/helpers"
	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/internal/telemetry"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
	"github.com/fetchkit/fetchkit/tools/web_search/searxng"
	"github.com/fetchkit/fetchkit/tools/web_search/tavily"
)

const (
	// MaxImages caps image lists before deduplication.
	MaxImages = 3
	// MaxContentChars caps the content snippet of one result.
	MaxContentChars = 1000
)

// ErrNoQueries is returned when a request carries an empty query list.
var ErrNoQueries = errors.New("at least one query is required")

// Searcher is one search capability: fallible, independently timed by
// its own HTTP client.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, topic models.Topic) ([]models.Result, []models.Image, error)
}

// Tool fans a search request out over its queries, resolving each one
// through the primary capability with fallback to the secondary.
type Tool struct {
	Primary  Searcher
	Fallback Searcher

	progress       progress.Sink
	logger         *log.Logger
	metrics        *telemetry.Metrics
	maxQueries     int
	defaultResults int
	maxResults     int
}

// New wires the configured capability clients into a Tool. The sink and
// metrics may be nil.
func New(cfg config.SearchConfig, sink progress.Sink, logger *log.Logger, metrics *telemetry.Metrics) *Tool {
	return NewWithProviders(cfg, tavily.New(cfg.Tavily), searxng.New(cfg.SearxNG), sink, logger, metrics)
}

// NewWithProviders builds a Tool around explicit capability
// implementations. Tests inject fakes here.
func NewWithProviders(cfg config.SearchConfig, primary, fallback Searcher, sink progress.Sink, logger *log.Logger, metrics *telemetry.Metrics) *Tool {
	if sink == nil {
		sink = progress.NopSink{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	maxQueries := cfg.MaxQueries
	if maxQueries <= 0 {
		maxQueries = 10
	}
	defaultResults := cfg.DefaultResults
	if defaultResults <= 0 {
		defaultResults = 10
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Tool{
		Primary:        primary,
		Fallback:       fallback,
		progress:       sink,
		logger:         logger,
		metrics:        metrics,
		maxQueries:     maxQueries,
		defaultResults: defaultResults,
		maxResults:     maxResults,
	}
}

// WithSink returns a copy of the tool emitting to a different sink.
// The server uses this to stream one request's events to its caller.
func (t *Tool) WithSink(sink progress.Sink) *Tool {
	if sink == nil {
		sink = progress.NopSink{}
	}
	clone := *t
	clone.progress = sink
	return &clone
}

// Search resolves every query concurrently and waits for all of them to
// settle. Outcomes keep input order; one query's failure never aborts
// its siblings. The only returned error is an empty query list.
func (t *Tool) Search(ctx context.Context, req models.Request) (models.Response, error) {
	if len(req.Queries) == 0 {
		return models.Response{}, ErrNoQueries
	}

	queries := req.Queries
	if len(queries) > t.maxQueries {
		queries = queries[:t.maxQueries]
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = t.defaultResults
	}
	if maxResults > t.maxResults {
		maxResults = t.maxResults
	}

	runID := uuid.NewString()
	total := len(queries)
	outcomes := make([]models.Outcome, total)

	var wg sync.WaitGroup
	for i, query := range queries {
		topic := topicAt(req.Topics, i)
		t.progress.Emit(progress.SearchStarted, map[string]any{
			"run_id":      runID,
			"query":       query,
			"index":       i,
			"total":       total,
			"num_results": 0,
			"num_images":  0,
		})

		wg.Add(1)
		go func(i int, query string, topic models.Topic) {
			defer wg.Done()
			started := time.Now()
			outcome := t.resolveQuery(ctx, query, maxResults, topic)
			outcomes[i] = outcome
			if t.metrics != nil {
				t.metrics.ObserveSearch(string(outcome.Provider), time.Since(started).Seconds())
			}

			event := progress.SearchCompleted
			if outcome.Provider == models.ProviderError {
				event = progress.SearchError
			}
			t.progress.Emit(event, map[string]any{
				"run_id":      runID,
				"query":       query,
				"index":       i,
				"total":       total,
				"provider":    string(outcome.Provider),
				"num_results": len(outcome.Results),
				"num_images":  len(outcome.Images),
			})
		}(i, query, topic)
	}
	wg.Wait()

	return models.Response{Searches: outcomes}, nil
}

// resolveQuery tries the primary capability, falls back on zero results,
// and converts every failure into an error-tagged outcome. A primary
// call that errors is not retried against the fallback; only the
// technically-successful-but-empty case advances.
func (t *Tool) resolveQuery(ctx context.Context, query string, maxResults int, topic models.Topic) models.Outcome {
	provider := models.ProviderTavily
	results, images, err := t.Primary.Search(ctx, query, maxResults, topic)
	if err != nil {
		t.logger.Printf("primary search failed for %q: %v", query, err)
		return errorOutcome(query)
	}

	if len(results) == 0 {
		provider = models.ProviderSearxNG
		results, images, err = t.Fallback.Search(ctx, query, maxResults, topic)
		if err != nil {
			t.logger.Printf("fallback search failed for %q: %v", query, err)
			return errorOutcome(query)
		}
	}

	for i := range results {
		results[i].Content = helpers.Truncate(results[i].Content, MaxContentChars)
	}
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}

	return models.Outcome{
		Query:    query,
		Provider: provider,
		Results:  DedupResults(results),
		Images:   DedupImages(images),
	}
}

func errorOutcome(query string) models.Outcome {
	return models.Outcome{
		Query:    query,
		Provider: models.ProviderError,
		Results:  []models.Result{},
		Images:   []models.Image{},
	}
}

// topicAt zips the topic array with the query index. A single-element
// array broadcasts to every query; missing tail entries use the general
// default.
func topicAt(topics []models.Topic, i int) models.Topic {
	switch {
	case len(topics) == 1:
		return topics[0]
	case i < len(topics):
		return topics[i]
	default:
		return models.TopicGeneral
	}
}
