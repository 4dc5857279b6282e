// Package metadata resolves canonical media identifiers to searchable
// title metadata. A trusted JSON metadata service is the primary source;
// when it fails, the resolver falls back to scraping the public title page
// for the identifier.
package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/cache"
	"github.com/subflow/subflow/internal/mediaid"
)

// ErrMetadataUnavailable is returned when neither the metadata service nor
// the page-scrape fallback yields a usable title.
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// MediaMetadata is the searchable description of one title.
type MediaMetadata struct {
	Title string
	Year  int
	Kind  mediaid.Kind
}

// ServiceClient is the primary metadata source.
type ServiceClient interface {
	GetMeta(ctx context.Context, kind mediaid.Kind, canonicalID string) (*MediaMetadata, error)
}

// PageScraper is the fallback source, extracting metadata from the public
// title page for an identifier.
type PageScraper interface {
	Scrape(ctx context.Context, canonicalID string) (*MediaMetadata, error)
}

// Resolver combines the primary service with the scrape fallback and
// caches successful results.
type Resolver struct {
	service ServiceClient
	scraper PageScraper
	cache   *cache.Cache[MediaMetadata]
	logger  zerolog.Logger
}

// DefaultCacheTTL is how long resolved metadata stays cached. Titles and
// release years effectively never change, so the TTL is generous.
const DefaultCacheTTL = 24 * time.Hour

// NewResolver creates a resolver over the given sources.
func NewResolver(service ServiceClient, scraper PageScraper, logger zerolog.Logger) *Resolver {
	return &Resolver{
		service: service,
		scraper: scraper,
		cache:   cache.New[MediaMetadata](DefaultCacheTTL),
		logger:  logger.With().Str("component", "metadata").Logger(),
	}
}

// Resolve returns metadata for canonicalID. When kindHint is non-empty only
// that kind is queried against the service; otherwise series is tried
// before movie, accepting the first response with a non-empty name. If all
// service attempts fail the title page is scraped instead.
func (r *Resolver) Resolve(ctx context.Context, canonicalID string, kindHint mediaid.Kind) (MediaMetadata, error) {
	if meta, ok := r.cache.Get(canonicalID); ok {
		return meta, nil
	}

	kinds := []mediaid.Kind{mediaid.KindSeries, mediaid.KindMovie}
	if kindHint != "" {
		kinds = []mediaid.Kind{kindHint}
	}

	for _, kind := range kinds {
		meta, err := r.service.GetMeta(ctx, kind, canonicalID)
		if err != nil {
			r.logger.Debug().
				Err(err).
				Str("id", canonicalID).
				Str("kind", string(kind)).
				Msg("Metadata service lookup failed")
			continue
		}
		if meta == nil || meta.Title == "" {
			continue
		}
		r.cache.Set(canonicalID, *meta)
		return *meta, nil
	}

	meta, err := r.scraper.Scrape(ctx, canonicalID)
	if err != nil || meta == nil || meta.Title == "" {
		r.logger.Warn().
			Err(err).
			Str("id", canonicalID).
			Msg("All metadata sources failed")
		return MediaMetadata{}, ErrMetadataUnavailable
	}

	r.logger.Debug().
		Str("id", canonicalID).
		Str("title", meta.Title).
		Int("year", meta.Year).
		Msg("Resolved metadata via page scrape")

	r.cache.Set(canonicalID, *meta)
	return *meta, nil
}
