// Package web_retrieve fetches readable content for batches of URLs
// through three ordered extraction tiers, aggregating whatever subset
// of the batch succeeds.
package web_retrieve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/helpers"
	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/internal/telemetry"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/browser"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/exa"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/models"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/rawfetch"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/reader"
)

// ErrNoURLs is returned when a request carries an empty URL list.
var ErrNoURLs = errors.New("at least one url is required")

// errAllTiersFailed is the terminal message when every tier came up empty.
const errAllTiersFailed = "All extraction methods failed"

// PrimaryExtractor is the first extraction tier.
type PrimaryExtractor interface {
	Extract(ctx context.Context, url string, maxChars int, liveCrawl string, summary bool) (models.Page, error)
}

// Renderer is the second extraction tier.
type Renderer interface {
	Render(ctx context.Context, url, format string) (models.Page, error)
}

// Fetcher is the third extraction tier; parsing happens in the resolver.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Tool fans a retrieval request out over its URLs and resolves each one
// through the tier chain.
type Tool struct {
	Primary PrimaryExtractor
	Render  Renderer
	Fetch   Fetcher

	progress         progress.Sink
	logger           *log.Logger
	metrics          *telemetry.Metrics
	maxContentChars  int
	defaultLiveCrawl string
}

// New wires the configured tier clients into a Tool. The render tier is
// either the hosted service or a local headless browser, per config.
func New(cfg config.RetrieveConfig, sink progress.Sink, logger *log.Logger, metrics *telemetry.Metrics) *Tool {
	var render Renderer
	if cfg.Reader.Type == "browser" {
		render = browser.New(cfg.Reader)
	} else {
		render = reader.New(cfg.Reader)
	}
	return NewWithTiers(cfg, exa.New(cfg.Exa), render, rawfetch.New(cfg.FetchTimeout), sink, logger, metrics)
}

// NewWithTiers builds a Tool around explicit tier implementations.
// Tests inject fakes here.
func NewWithTiers(cfg config.RetrieveConfig, primary PrimaryExtractor, render Renderer, fetch Fetcher, sink progress.Sink, logger *log.Logger, metrics *telemetry.Metrics) *Tool {
	if sink == nil {
		sink = progress.NopSink{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[RETRIEVE] ", log.LstdFlags)
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &Tool{
		Primary:          primary,
		Render:           render,
		Fetch:            fetch,
		progress:         sink,
		logger:           logger,
		metrics:          metrics,
		maxContentChars:  maxChars,
		defaultLiveCrawl: exa.NormalizeLiveCrawl(cfg.Exa.LiveCrawl),
	}
}

// WithSink returns a copy of the tool emitting to a different sink.
func (t *Tool) WithSink(sink progress.Sink) *Tool {
	if sink == nil {
		sink = progress.NopSink{}
	}
	clone := *t
	clone.progress = sink
	return &clone
}

// options carries the per-URL knobs after broadcast/zip resolution.
type options struct {
	contentType string
	summary     bool
	liveCrawl   string
}

// Retrieve resolves every URL concurrently and waits for all of them to
// settle. Sources keeps input order; Results collects successful pages
// in the order their resolutions finished. One URL's failure never
// cancels or fails the batch; only a batch with zero successes carries
// a top-level error.
func (t *Tool) Retrieve(ctx context.Context, req models.Request) (models.Response, error) {
	if len(req.URLs) == 0 {
		return models.Response{}, ErrNoURLs
	}

	runID := uuid.NewString()
	total := len(req.URLs)
	began := time.Now()

	outcomes := make([]models.Outcome, total)
	settled := make(chan int, total)

	var wg sync.WaitGroup
	for i, url := range req.URLs {
		opt := t.optionsAt(req, i)
		t.progress.Emit(progress.RetrieveStarted, map[string]any{
			"run_id": runID,
			"url":    url,
			"index":  i,
			"total":  total,
		})

		wg.Add(1)
		go func(i int, url string, opt options) {
			defer wg.Done()
			outcome := t.resolveURL(ctx, url, opt)
			outcomes[i] = outcome
			settled <- i
			if t.metrics != nil {
				t.metrics.ObserveExtraction(string(outcome.Source), outcome.Elapsed)
			}

			event := progress.RetrieveCompleted
			if outcome.Page == nil {
				event = progress.RetrieveError
			}
			t.progress.Emit(event, map[string]any{
				"run_id":  runID,
				"url":     url,
				"index":   i,
				"total":   total,
				"source":  string(outcome.Source),
				"elapsed": outcome.Elapsed,
				"error":   outcome.Err,
			})
		}(i, url, opt)
	}
	wg.Wait()
	close(settled)

	resp := models.Response{
		URLs:    req.URLs,
		Results: []models.Page{},
		Sources: make([]models.Source, total),
	}
	for i, o := range outcomes {
		resp.Sources[i] = o.Source
	}
	for i := range settled {
		o := outcomes[i]
		if o.Page != nil {
			resp.Results = append(resp.Results, *o.Page)
		} else {
			resp.PartialErrors = append(resp.PartialErrors, fmt.Sprintf("%s: %s", o.URL, o.Err))
		}
	}
	if len(resp.Results) == 0 {
		resp.Error = strings.Join(resp.PartialErrors, "; ")
	}
	resp.Elapsed = time.Since(began).Seconds()

	return resp, nil
}

// optionsAt zips the request's option arrays with the URL index. A
// single-element array broadcasts to every URL; missing tail entries
// use the defaults.
func (t *Tool) optionsAt(req models.Request, i int) options {
	opt := options{contentType: "text", liveCrawl: t.defaultLiveCrawl}
	switch {
	case len(req.ContentTypes) == 1:
		opt.contentType = req.ContentTypes[0]
	case i < len(req.ContentTypes):
		opt.contentType = req.ContentTypes[i]
	}
	switch {
	case len(req.Summary) == 1:
		opt.summary = req.Summary[0]
	case i < len(req.Summary):
		opt.summary = req.Summary[i]
	}
	switch {
	case len(req.LiveCrawl) == 1:
		opt.liveCrawl = exa.NormalizeLiveCrawl(req.LiveCrawl[0])
	case i < len(req.LiveCrawl):
		opt.liveCrawl = exa.NormalizeLiveCrawl(req.LiveCrawl[i])
	}
	return opt
}

// resolveURL walks the tier chain for one URL. Tier errors are logged
// and swallowed as that tier's failure; only validation rejection or
// exhaustion of every tier yields an outcome without a page. Elapsed
// covers the whole walk, not one tier.
func (t *Tool) resolveURL(ctx context.Context, url string, opt options) models.Outcome {
	began := time.Now()

	if !helpers.IsHTTPURL(url) {
		return models.Outcome{
			URL:     url,
			Source:  models.SourceValidation,
			Elapsed: time.Since(began).Seconds(),
			Err:     fmt.Sprintf("invalid URL %q: must start with http:// or https://", url),
		}
	}

	if page, err := t.Primary.Extract(ctx, url, t.maxContentChars, opt.liveCrawl, opt.summary); err != nil {
		t.logger.Printf("exa extract failed for %s: %v", url, err)
	} else if strings.TrimSpace(page.Content) != "" {
		return t.settle(url, models.SourceExa, page, began)
	}

	if page, err := t.Render.Render(ctx, url, opt.contentType); err != nil {
		t.logger.Printf("render failed for %s: %v", url, err)
	} else {
		content := strings.TrimSpace(page.Content)
		if strings.HasPrefix(content, "<") {
			// The service answered with raw markup; reduce it to text.
			content = helpers.StripHTML(content)
		}
		if content != "" {
			page.Content = content
			return t.settle(url, models.SourceReader, page, began)
		}
	}

	if html, err := t.Fetch.Fetch(ctx, url); err != nil {
		t.logger.Printf("raw fetch failed for %s: %v", url, err)
	} else if text := helpers.StripHTML(html); text != "" {
		page := models.Page{
			URL:         url,
			Title:       helpers.PageTitle(html),
			Description: helpers.MetaDescription(html),
			Content:     text,
			Image:       helpers.OGImage(html),
		}
		return t.settle(url, models.SourceRaw, page, began)
	}

	return models.Outcome{
		URL:     url,
		Source:  models.SourceError,
		Elapsed: time.Since(began).Seconds(),
		Err:     errAllTiersFailed,
	}
}

// settle normalizes the page a successful tier produced and stamps the
// outcome. Title falls back to the URL, the description to a derived
// summary, the favicon to the deterministic hostname form.
func (t *Tool) settle(url string, source models.Source, page models.Page, began time.Time) models.Outcome {
	page.URL = url
	page.Content = helpers.Truncate(page.Content, t.maxContentChars)

	page.Title = helpers.CleanTitle(page.Title)
	if page.Title == "" {
		page.Title = url
	}
	if strings.TrimSpace(page.Description) == "" {
		page.Description = helpers.Summarize(page.Content)
	} else {
		page.Description = helpers.Summarize(page.Description)
	}
	if page.Favicon == "" {
		page.Favicon = helpers.FaviconURL(url)
	}
	if page.Language == "" {
		page.Language = "en"
	}

	return models.Outcome{
		URL:     url,
		Source:  source,
		Elapsed: time.Since(began).Seconds(),
		Page:    &page,
	}
}
