package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
)

const defaultBaseURL = "http://localhost:8080"

// Client queries a self-hosted SearXNG instance over its JSON API.
// https://docs.searxng.org/dev/search_api.html
type Client struct {
	BaseURL    string
	Language   string
	SafeSearch int
	HTTPClient *http.Client
}

func New(cfg config.SearxNGConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		BaseURL:    base,
		Language:   lang,
		SafeSearch: cfg.SafeSearch,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
		ImgSrc        string `json:"img_src"`
	} `json:"results"`
}

// Search runs one query against the instance's JSON endpoint. The topic
// maps onto SearXNG's category vocabulary; language and safesearch come
// from configuration. Results carrying an img_src are surfaced as
// images as well.
func (c *Client) Search(ctx context.Context, query string, maxResults int, topic models.Topic) ([]models.Result, []models.Image, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("language", c.Language)
	params.Set("safesearch", strconv.Itoa(c.SafeSearch))
	if topic == models.TopicNews {
		params.Set("categories", "news")
	} else {
		params.Set("categories", "general")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("searxng: unexpected status %d", resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, nil, err
	}

	var results []models.Result
	var images []models.Image
	for _, r := range raw.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, models.Result{
			URL:           r.URL,
			Title:         r.Title,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
		if r.ImgSrc != "" {
			images = append(images, models.Image{URL: r.ImgSrc, Description: r.Title})
		}
	}
	return results, images, nil
}
