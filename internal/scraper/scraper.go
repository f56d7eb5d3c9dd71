package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	UserAgent = "data-covid19-sfbayarea/1.0 (github.com/rickpr/data-covid19-sfbayarea)"
	Timeout   = 30 * time.Second
)

// ErrFetch wraps every network or HTTP failure
var ErrFetch = errors.New("fetch failed")

// Scraper fetches pages over HTTP
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a new Scraper. Zero values fall back to Timeout and UserAgent.
func New(timeout time.Duration, userAgent string) *Scraper {
	if timeout <= 0 {
		timeout = Timeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch downloads url and parses the body as HTML
func (s *Scraper) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching page: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrFetch, resp.StatusCode)
	}

	return parseDocument(resp.Body, resp.Header.Get("Content-Type"))
}

// parseDocument decodes r to UTF-8 and builds a goquery document
func parseDocument(r io.Reader, contentType string) (*goquery.Document, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		utf8Reader = r
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrFetch, err)
	}
	return doc, nil
}
