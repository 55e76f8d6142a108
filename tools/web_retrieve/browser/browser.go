package browser

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/models"
)

// Renderer is a local alternative to the hosted render service: it
// loads the page in headless Chrome and runs readability over the
// resulting DOM. Selected with retrieve.reader.type = "browser".
type Renderer struct {
	Timeout time.Duration
}

func New(cfg config.ReaderConfig) *Renderer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{Timeout: timeout}
}

// Render navigates to the URL, waits for the body, and extracts the
// readable article. The format hint is accepted for interface parity
// with the hosted service and ignored; readability always yields text.
func (r *Renderer) Render(ctx context.Context, rawURL, _ string) (models.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	html, err := renderHTML(ctx, rawURL)
	if err != nil {
		return models.Page{}, err
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedOrEmpty(rawURL))
	if err != nil {
		return models.Page{}, err
	}

	return models.Page{
		URL:         rawURL,
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		Content:     strings.TrimSpace(article.TextContent),
		Author:      strings.TrimSpace(article.Byline),
		Image:       article.Image,
		Favicon:     article.Favicon,
	}, nil
}

func renderHTML(ctx context.Context, rawURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("fetchkit/1.0"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func parsedOrEmpty(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
