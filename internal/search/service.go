// Package search fans a subtitle search out across every registered
// provider adapter and merges the results.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/metadata"
	"github.com/subflow/subflow/internal/provider"
)

// Service orchestrates concurrent searches across the provider registry.
type Service struct {
	registry *provider.Registry
	logger   zerolog.Logger
}

// NewService creates a search service over the given registry.
func NewService(registry *provider.Registry, logger zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// SearchAll queries every registered adapter concurrently and waits for
// all of them to settle; a slow or failing adapter delays but never
// suppresses the others' results. Adapters absorb their own failures, so
// each unit of work terminates with a (possibly empty) record list. The
// merged list keeps adapter-registration order and drops later duplicates
// of the same (provider, externalID) pair.
func (s *Service) SearchAll(ctx context.Context, meta metadata.MediaMetadata, season, episode int, canonicalID string) []provider.Record {
	providers := s.registry.All()
	if len(providers) == 0 {
		return []provider.Record{}
	}

	q := provider.Query{
		Title:       meta.Title,
		Year:        meta.Year,
		Season:      season,
		Episode:     episode,
		CanonicalID: canonicalID,
	}

	start := time.Now()
	s.logger.Info().
		Str("title", q.Title).
		Int("year", q.Year).
		Int("season", season).
		Int("episode", episode).
		Int("providerCount", len(providers)).
		Msg("Starting search across providers")

	// Indexed by registration position so the merge below preserves
	// registry order regardless of completion order.
	perProvider := make([][]provider.Record, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			unitStart := time.Now()
			records := p.Search(ctx, q)
			perProvider[i] = records
			s.logger.Debug().
				Str("provider", p.ID()).
				Int("results", len(records)).
				Dur("elapsed", time.Since(unitStart)).
				Msg("Provider search settled")
		}(i, p)
	}
	wg.Wait()

	merged := mergeRecords(perProvider)

	s.logger.Info().
		Int("totalResults", len(merged)).
		Dur("elapsed", time.Since(start)).
		Msg("Search completed")

	return merged
}

// mergeRecords flattens per-provider results in order, dropping later
// duplicates of a (provider, externalID) pair. First seen wins.
func mergeRecords(perProvider [][]provider.Record) []provider.Record {
	total := 0
	for _, records := range perProvider {
		total += len(records)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]provider.Record, 0, total)

	for _, records := range perProvider {
		for _, record := range records {
			key := record.Provider + "\x00" + record.ExternalID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, record)
		}
	}

	return merged
}
