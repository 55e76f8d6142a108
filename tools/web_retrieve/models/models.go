package models

// Source tags which extraction stage produced an outcome.
type Source string

const (
	SourceExa        Source = "exa"        // tier 1: hosted extraction API
	SourceReader     Source = "reader"     // tier 2: render service
	SourceRaw        Source = "raw"        // tier 3: direct fetch + parse
	SourceValidation Source = "validation" // rejected before any network I/O
	SourceError      Source = "error"      // every tier exhausted
)

// Request is one batch of URL retrievals. The option arrays are zipped
// with URLs by index; a single element broadcasts to the whole batch
// and missing tail entries fall back to defaults.
type Request struct {
	URLs         []string `json:"urls"`
	ContentTypes []string `json:"content_types,omitempty"`
	Summary      []bool   `json:"summary,omitempty"`
	LiveCrawl    []string `json:"livecrawl,omitempty"`
}

// Page is the canonical extracted record shape shared by every tier.
type Page struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Content       string `json:"content"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Image         string `json:"image,omitempty"`
	Favicon       string `json:"favicon"`
	Language      string `json:"language"`
}

// Outcome is the settled result of one URL. Page is nil exactly when
// Source is validation or error.
type Outcome struct {
	URL     string  `json:"url"`
	Source  Source  `json:"source"`
	Elapsed float64 `json:"elapsed_seconds"`
	Page    *Page   `json:"page,omitempty"`
	Err     string  `json:"error,omitempty"`
}

// Response aggregates a retrieval batch. URLs keeps input order;
// Results holds only successful pages in the order their resolutions
// settled; Sources records the per-input-index outcome tag. Error is a
// joined message present only when zero URLs succeeded.
type Response struct {
	URLs          []string `json:"urls"`
	Results       []Page   `json:"results"`
	Sources       []Source `json:"sources"`
	Elapsed       float64  `json:"elapsed_seconds"`
	Error         string   `json:"error,omitempty"`
	PartialErrors []string `json:"partial_errors,omitempty"`
}
