package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
)

// BrowserUserAgent is sent on every origin request. The sites block
// obvious non-browser clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxRedirects = 5

// ScrapeClient performs the HTTP legwork shared by adapters: form
// submission with browser headers, bounded timeout and redirects, and
// windows-1251 body decoding for the origins that still serve it.
type ScrapeClient struct {
	httpClient *http.Client
	cp1251     bool
}

// NewScrapeClient creates a client with the given per-request timeout.
// cp1251 selects windows-1251 response decoding before HTML parsing.
func NewScrapeClient(timeout time.Duration, cp1251 bool) *ScrapeClient {
	return &ScrapeClient{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		cp1251: cp1251,
	}
}

// PostForm submits a search form and parses the response as HTML.
func (c *ScrapeClient) PostForm(ctx context.Context, endpoint, referer string, form url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, referer)
}

// Get fetches a listing page and parses the response as HTML.
func (c *ScrapeClient) Get(ctx context.Context, endpoint, referer string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, referer)
}

func (c *ScrapeClient) do(req *http.Request, referer string) (*goquery.Document, error) {
	req.Header.Set("User-Agent", BrowserUserAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if c.cp1251 {
		body = charmap.Windows1251.NewDecoder().Reader(resp.Body)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	return doc, nil
}
