package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
)

const defaultBaseURL = "https://api.tavily.com"

// Client calls the Tavily search API.
// https://docs.tavily.com/docs/rest-api/api-reference
type Client struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
}

func New(cfg config.TavilyConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 15
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		APIKey:     cfg.APIKey,
		BaseURL:    base,
		MaxResults: maxResults,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	Topic         string `json:"topic,omitempty"`
	IncludeImages bool   `json:"include_images"`
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
	Images []struct {
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"images"`
}

// Search runs one query. The requested result count is clamped to the
// API's own limit; the topic maps onto Tavily's category vocabulary
// (general is the API default and is sent as-is).
func (c *Client) Search(ctx context.Context, query string, maxResults int, topic models.Topic) ([]models.Result, []models.Image, error) {
	if maxResults > c.MaxResults {
		maxResults = c.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	payload := searchRequest{Query: query, MaxResults: maxResults, IncludeImages: true}
	if topic == models.TopicNews {
		payload.Topic = "news"
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("tavily: unexpected status %d", resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, nil, err
	}

	var results []models.Result
	for i, r := range raw.Results {
		if i >= maxResults {
			break
		}
		results = append(results, models.Result{
			URL:           r.URL,
			Title:         r.Title,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
	}
	var images []models.Image
	for _, img := range raw.Images {
		images = append(images, models.Image{URL: img.URL, Description: img.Description})
	}
	return results, images, nil
}
