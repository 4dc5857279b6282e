package subtitle

import "errors"

var (
	// ErrInvalidIdentifier is returned when an external id does not have
	// the lexical form the adapters use (numeric).
	ErrInvalidIdentifier = errors.New("invalid subtitle identifier")

	// ErrUnknownProvider is returned when the named provider is not in
	// the registry.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUpstreamUnavailable is returned when the origin fetch produced
	// no bytes at all.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrArtifactNotFound is returned when a container was fetched and
	// opened but held no recognized subtitle entry.
	ErrArtifactNotFound = errors.New("no subtitle found in archive")

	// errMalformedContainer is internal: a corrupt container degrades to
	// raw-text handling and is never surfaced to callers.
	errMalformedContainer = errors.New("malformed container")
)
