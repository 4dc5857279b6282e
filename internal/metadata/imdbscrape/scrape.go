// Package imdbscrape extracts title metadata from the public IMDb title
// page. It is the fallback behind the metadata service: the page markup is
// unstable, so each field is filled by an ordered list of independent
// extraction strategies, the first that yields a value winning.
package imdbscrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/mediaid"
	"github.com/subflow/subflow/internal/metadata"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches and parses IMDb title pages.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewScraper creates a scraper against baseURL (normally https://www.imdb.com).
func NewScraper(baseURL string, timeout time.Duration, logger zerolog.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.With().Str("component", "imdbscrape").Logger(),
	}
}

// Scrape fetches the title page for canonicalID and extracts title, year
// and kind. Fields are filled independently: each has its own strategy
// list and may be satisfied by a different strategy than its neighbors.
func (s *Scraper) Scrape(ctx context.Context, canonicalID string) (*metadata.MediaMetadata, error) {
	endpoint := fmt.Sprintf("%s/title/%s/", s.baseURL, canonicalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	result := Extract(doc)
	if result.Title == "" {
		return nil, fmt.Errorf("no title found on page for %s", canonicalID)
	}

	s.logger.Debug().
		Str("id", canonicalID).
		Str("title", result.Title).
		Int("year", result.Year).
		Str("kind", string(result.Kind)).
		Msg("Scraped title page")

	return &result, nil
}

// Extract runs the per-field strategy lists against a parsed document.
// Exported separately from Scrape so the strategies can be exercised on
// static fixtures.
func Extract(doc *goquery.Document) metadata.MediaMetadata {
	result := metadata.MediaMetadata{Kind: mediaid.KindMovie}

	for _, strategy := range titleStrategies {
		if title, ok := strategy(doc); ok {
			result.Title = title
			break
		}
	}
	for _, strategy := range yearStrategies {
		if year, ok := strategy(doc); ok {
			result.Year = year
			break
		}
	}
	for _, strategy := range kindStrategies {
		if kind, ok := strategy(doc); ok {
			result.Kind = kind
			break
		}
	}

	return result
}

// ogTitleRe splits an og:title value like
// "Game of Thrones (TV Series 2011-2019) - IMDb" into name and qualifier.
var ogTitleRe = regexp.MustCompile(`^(.*?)\s*\((?:TV (?:Series|Mini[ -]?Series|Episode)\s*)?(\d{4})`)

// jsonLD is the subset of the embedded structured-data block we read.
type jsonLD struct {
	Type          string `json:"@type"`
	Name          string `json:"name"`
	DatePublished string `json:"datePublished"`
}

func decodeJSONLD(doc *goquery.Document) (jsonLD, bool) {
	var out jsonLD
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var block jsonLD
		if err := json.Unmarshal([]byte(sel.Text()), &block); err != nil {
			return true
		}
		if block.Name == "" && block.Type == "" {
			return true
		}
		out = block
		found = true
		return false
	})
	return out, found
}

// Title strategies, in order: og:title meta tag, JSON-LD name, h1 heading.
var titleStrategies = []func(*goquery.Document) (string, bool){
	func(doc *goquery.Document) (string, bool) {
		content, exists := doc.Find(`meta[property="og:title"]`).Attr("content")
		if !exists || content == "" {
			return "", false
		}
		title := content
		if m := ogTitleRe.FindStringSubmatch(content); m != nil {
			title = m[1]
		}
		title = strings.TrimSuffix(title, " - IMDb")
		title = strings.TrimSpace(title)
		return title, title != ""
	},
	func(doc *goquery.Document) (string, bool) {
		block, ok := decodeJSONLD(doc)
		if !ok || block.Name == "" {
			return "", false
		}
		return strings.TrimSpace(block.Name), true
	},
	func(doc *goquery.Document) (string, bool) {
		title := strings.TrimSpace(doc.Find("h1").First().Text())
		return title, title != ""
	},
}

// Year strategies, in order: og:title qualifier, JSON-LD datePublished,
// release-year link.
var yearStrategies = []func(*goquery.Document) (int, bool){
	func(doc *goquery.Document) (int, bool) {
		content, exists := doc.Find(`meta[property="og:title"]`).Attr("content")
		if !exists {
			return 0, false
		}
		m := ogTitleRe.FindStringSubmatch(content)
		if m == nil {
			return 0, false
		}
		year, err := strconv.Atoi(m[2])
		return year, err == nil
	},
	func(doc *goquery.Document) (int, bool) {
		block, ok := decodeJSONLD(doc)
		if !ok || len(block.DatePublished) < 4 {
			return 0, false
		}
		year, err := strconv.Atoi(block.DatePublished[:4])
		return year, err == nil && year > 1800
	},
	func(doc *goquery.Document) (int, bool) {
		var year int
		doc.Find(`a[href*="releaseinfo"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) >= 4 {
				if y, err := strconv.Atoi(text[:4]); err == nil && y > 1800 {
					year = y
					return false
				}
			}
			return true
		})
		return year, year != 0
	},
}

// Kind strategies, in order: og:title qualifier, JSON-LD @type, presence
// of an episode subnav on the page.
var kindStrategies = []func(*goquery.Document) (mediaid.Kind, bool){
	func(doc *goquery.Document) (mediaid.Kind, bool) {
		content, exists := doc.Find(`meta[property="og:title"]`).Attr("content")
		if !exists {
			return "", false
		}
		if strings.Contains(content, "TV Series") || strings.Contains(content, "TV Mini") {
			return mediaid.KindSeries, true
		}
		return "", false
	},
	func(doc *goquery.Document) (mediaid.Kind, bool) {
		block, ok := decodeJSONLD(doc)
		if !ok {
			return "", false
		}
		switch block.Type {
		case "TVSeries", "TVEpisode":
			return mediaid.KindSeries, true
		case "Movie":
			return mediaid.KindMovie, true
		}
		return "", false
	},
	func(doc *goquery.Document) (mediaid.Kind, bool) {
		if doc.Find(`a[href*="/episodes"]`).Length() > 0 {
			return mediaid.KindSeries, true
		}
		return "", false
	},
}
