// Package subtitle is the retrieval proxy: it fetches a chosen subtitle
// from its origin, unwraps the container, fixes the encoding, converts
// legacy timing and returns one consistent text stream.
package subtitle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/provider"
)

// ContentType identifies the normalized output format.
const ContentType = "application/x-subrip; charset=utf-8"

// Normalized is the final, encoding-corrected subtitle text. It is never
// cached: origin content is not guaranteed stable and rebuilding it is
// cheap next to the risk of serving a stale mismatch.
type Normalized struct {
	Text        string
	ContentType string
}

// numericIDRe is the lexical form every adapter's external ids take.
var numericIDRe = regexp.MustCompile(`^\d+$`)

// Proxy resolves (provider, externalID) pairs to normalized subtitle
// text. It holds no per-request state; concurrent fetches are
// independent.
type Proxy struct {
	registry *provider.Registry
	fetcher  *fetcher
	logger   zerolog.Logger
}

// NewProxy creates a proxy over the registry with the given fetch timeout.
func NewProxy(registry *provider.Registry, timeout time.Duration, logger zerolog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Proxy{
		registry: registry,
		fetcher:  newFetcher(timeout),
		logger:   logger.With().Str("component", "subtitle").Logger(),
	}
}

// Fetch downloads and normalizes one subtitle.
//
// The pipeline: resolve the provider's download locator, fetch with
// browser headers, unwrap the container if the payload carries the
// container magic, decode the text, convert legacy frame timing. A
// corrupt container degrades to treating the raw bytes as text; only a
// fetch that yields no bytes at all, or a container with no recognized
// entry, fails the request.
func (p *Proxy) Fetch(ctx context.Context, providerID, externalID string) (*Normalized, error) {
	if !numericIDRe.MatchString(externalID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, externalID)
	}

	prov, ok := p.registry.Get(providerID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}

	loc := prov.DownloadLocator(externalID)
	outcome := p.fetcher.fetch(ctx, loc)

	switch outcome.state {
	case fetchFailed:
		p.logger.Warn().
			Err(outcome.err).
			Str("provider", providerID).
			Str("externalId", externalID).
			Msg("Origin fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, outcome.err)
	case fetchPartial:
		p.logger.Debug().
			Err(outcome.err).
			Str("provider", providerID).
			Int("bytes", len(outcome.body)).
			Msg("Connection dropped after payload, using received bytes")
	}

	payload := outcome.body
	if isContainer(payload) {
		extracted, err := extractFromContainer(payload)
		switch {
		case errors.Is(err, ErrArtifactNotFound):
			return nil, err
		case err != nil:
			p.logger.Debug().
				Err(err).
				Str("provider", providerID).
				Msg("Container unreadable, falling back to raw payload")
		default:
			payload = extracted
		}
	}

	text := ConvertFrameIndexed(decodeText(payload))

	p.logger.Debug().
		Str("provider", providerID).
		Str("externalId", externalID).
		Int("chars", len(text)).
		Msg("Normalized subtitle")

	return &Normalized{Text: text, ContentType: ContentType}, nil
}
