package models

// Topic selects a search category. Providers translate it into their
// own vocabulary.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
)

// Provider tags which capability served a query.
type Provider string

const (
	ProviderTavily  Provider = "tavily"
	ProviderSearxNG Provider = "searxng"
	ProviderError   Provider = "error"
)

// Request is one batch of independent searches. Queries beyond the
// orchestrator's cap are truncated; MaxResults is clamped to [1,20]
// with a default of 10. Topics is zipped with Queries by index; a
// single element broadcasts to every query.
type Request struct {
	Queries    []string `json:"queries"`
	MaxResults int      `json:"max_results,omitempty"`
	Topics     []Topic  `json:"topics,omitempty"`
}

// Result is one canonical search hit.
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
	Author        string `json:"author,omitempty"`
}

// Image is one canonical image hit.
type Image struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Outcome is the settled result of one query. It is immutable once
// returned: results and images are already deduplicated by URL and
// domain.
type Outcome struct {
	Query    string   `json:"query"`
	Provider Provider `json:"provider"`
	Results  []Result `json:"results"`
	Images   []Image  `json:"images"`
}

// Response aggregates per-query outcomes in input order.
type Response struct {
	Searches []Outcome `json:"searches"`
}
