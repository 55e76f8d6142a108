package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/models"
)

const defaultBaseURL = "https://api.exa.ai"

// LiveCrawl modes accepted by the contents endpoint.
const (
	LiveCrawlNever     = "never"
	LiveCrawlAuto      = "auto"
	LiveCrawlPreferred = "preferred"
)

// Client calls the Exa contents API, the first extraction tier.
// https://docs.exa.ai/reference/get-contents
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func New(cfg config.ExaConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{APIKey: cfg.APIKey, BaseURL: base, HTTPClient: &http.Client{Timeout: timeout}}
}

type contentsRequest struct {
	URLs      []string     `json:"urls"`
	Text      *textOptions `json:"text,omitempty"`
	Summary   *struct{}    `json:"summary,omitempty"`
	LiveCrawl string       `json:"livecrawl,omitempty"`
}

type textOptions struct {
	MaxCharacters int `json:"maxCharacters,omitempty"`
}

type contentsResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Text          string `json:"text"`
		Summary       string `json:"summary"`
		Author        string `json:"author"`
		PublishedDate string `json:"publishedDate"`
		Image         string `json:"image"`
		Favicon       string `json:"favicon"`
		Language      string `json:"language"`
	} `json:"results"`
}

// NormalizeLiveCrawl maps a caller preference onto the API enum,
// defaulting to preferred.
func NormalizeLiveCrawl(pref string) string {
	switch pref {
	case LiveCrawlNever, LiveCrawlAuto, LiveCrawlPreferred:
		return pref
	default:
		return LiveCrawlPreferred
	}
}

// Extract fetches readable content for one URL. Success here only means
// the call went through; the resolver decides usability on the trimmed
// text.
func (c *Client) Extract(ctx context.Context, url string, maxChars int, liveCrawl string, summary bool) (models.Page, error) {
	payload := contentsRequest{
		URLs:      []string{url},
		Text:      &textOptions{MaxCharacters: maxChars},
		LiveCrawl: NormalizeLiveCrawl(liveCrawl),
	}
	if summary {
		payload.Summary = &struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/contents", bytes.NewReader(body))
	if err != nil {
		return models.Page{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.Page{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Page{}, fmt.Errorf("exa: unexpected status %d", resp.StatusCode)
	}

	var raw contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Page{}, err
	}
	if len(raw.Results) == 0 {
		return models.Page{}, errors.New("exa: empty results")
	}

	r := raw.Results[0]
	description := r.Summary
	return models.Page{
		URL:           url,
		Title:         r.Title,
		Description:   description,
		Content:       r.Text,
		Author:        r.Author,
		PublishedDate: r.PublishedDate,
		Image:         r.Image,
		Favicon:       r.Favicon,
		Language:      r.Language,
	}, nil
}
