package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/cache"
)

// SearchCacheTTL is how long one (variant, year) parse stays cached.
// Listings churn as new uploads arrive, so the window is short.
const SearchCacheTTL = time.Hour

// SearchFunc executes one concrete query against an origin site and
// parses the listing into records. year is zero when the year filter has
// been dropped.
type SearchFunc func(ctx context.Context, variant string, year int) ([]Record, error)

// RunSearch is the variant/retry loop shared by all adapters. It tries
// each query variant in order and stops at the first that yields results.
// If every year-filtered variant comes back empty the whole sequence is
// retried without the year, since some origins apply the year strictly
// enough to hide valid uploads. Each (variant, year) parse is cached.
// Failures are logged and absorbed; the caller always gets a valid,
// possibly empty, list capped at MaxResults.
func RunSearch(ctx context.Context, q Query, c *cache.Cache[[]Record], logger zerolog.Logger, search SearchFunc) []Record {
	years := []int{q.Year}
	if q.Year > 0 {
		years = append(years, 0)
	}

	for _, year := range years {
		for _, variant := range Variants(q) {
			records, ok := c.Get(CacheKey(variant, year))
			if !ok {
				var err error
				records, err = search(ctx, variant, year)
				if err != nil {
					logger.Warn().
						Err(err).
						Str("query", variant).
						Int("year", year).
						Msg("Provider search failed")
					continue
				}
				c.Set(CacheKey(variant, year), records)
			}
			if len(records) > 0 {
				if len(records) > MaxResults {
					records = records[:MaxResults]
				}
				logger.Debug().
					Str("query", variant).
					Int("year", year).
					Int("results", len(records)).
					Msg("Search variant matched")
				return records
			}
		}
	}

	return []Record{}
}
