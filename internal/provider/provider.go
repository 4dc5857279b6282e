// Package provider defines the capability contract one subtitle origin
// site adapter implements, plus the shared search plumbing every adapter
// uses: query variant generation, per-query caching and the result cap.
package provider

import (
	"context"
	"fmt"
	"strconv"
)

// MaxResults caps how many records one adapter may return from a single
// search, bounding aggregation cost.
const MaxResults = 20

// Record is one subtitle candidate in the common shape all adapters
// produce. Numeric-looking fields stay strings: origins render them as
// free text and the values are display-only.
type Record struct {
	Provider      string `json:"provider"`
	ProviderLabel string `json:"providerLabel"`
	ExternalID    string `json:"externalId"`
	Title         string `json:"title"`
	Year          string `json:"year,omitempty"`
	FrameRate     string `json:"fps,omitempty"`
	Uploader      string `json:"uploader,omitempty"`
	DownloadCount string `json:"downloads,omitempty"`
}

// Query is the search input handed to every adapter.
type Query struct {
	Title       string
	Year        int
	Season      int
	Episode     int
	CanonicalID string
}

// Locator describes where a subtitle artifact can be fetched and which
// referer the origin expects to see.
type Locator struct {
	URL     string
	Referer string
}

// Provider is one subtitle origin site. Search never returns an error:
// network and parse failures are absorbed into an empty result and logged
// by the adapter, so one bad origin cannot poison an aggregated search.
// DownloadLocator is pure; it performs no network access.
type Provider interface {
	ID() string
	Label() string
	Search(ctx context.Context, q Query) []Record
	DownloadLocator(externalID string) Locator
}

// Variants returns the ordered query strings an adapter should try. For a
// series the season/episode notations come first so an episode-specific
// match wins over the bare title; the bare title remains as the last
// resort because some uploads omit episode markers entirely.
func Variants(q Query) []string {
	if q.Season > 0 && q.Episode > 0 {
		return []string{
			fmt.Sprintf("%s s%02de%02d", q.Title, q.Season, q.Episode),
			fmt.Sprintf("%s %dx%02d", q.Title, q.Season, q.Episode),
			q.Title,
		}
	}
	return []string{q.Title}
}

// CacheKey builds the per-adapter cache key for one (variant, year) query.
func CacheKey(variant string, year int) string {
	return variant + "|" + strconv.Itoa(year)
}
