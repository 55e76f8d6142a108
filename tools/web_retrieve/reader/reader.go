package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/models"
)

// DefaultEndpoint is used when no render service is configured; a local
// reader container is the expected deployment.
const DefaultEndpoint = "http://localhost:3000"

// Client posts URLs to a headless render service, the second extraction
// tier. The service answers with whichever of text, markdown or html it
// managed to produce; raw markup is detected and re-stripped by the
// resolver.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func New(cfg config.ReaderConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{Endpoint: endpoint, HTTPClient: &http.Client{Timeout: timeout}}
}

type renderResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
	Markdown    string `json:"markdown"`
	HTML        string `json:"html"`
	Image       string `json:"image"`
}

// Render asks the service to load and extract one URL. The format hint
// ("text" or "markdown") tells the service which shape to prefer; it is
// advisory and may be ignored.
func (c *Client) Render(ctx context.Context, url, format string) (models.Page, error) {
	payload := map[string]string{"url": url}
	if format != "" {
		payload["format"] = format
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Page{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.Page{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Page{}, fmt.Errorf("reader: unexpected status %d", resp.StatusCode)
	}

	var raw renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Page{}, err
	}

	content := raw.Text
	if content == "" {
		content = raw.Markdown
	}
	if content == "" {
		content = raw.HTML
	}

	return models.Page{
		URL:         url,
		Title:       raw.Title,
		Description: raw.Description,
		Content:     content,
		Image:       raw.Image,
	}, nil
}
