// Package mediaid parses the composite media identifiers accepted by the
// service. A movie is identified by a bare canonical id ("tt0133093"); an
// episode appends season and episode numbers ("tt0944947:1:5").
package mediaid

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedIdentifier is returned when a composite identifier has
// neither the movie nor the series shape.
var ErrMalformedIdentifier = errors.New("malformed media identifier")

// Kind distinguishes movies from series episodes.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// MediaReference is the parsed form of a composite identifier. Season and
// Episode are set together and only when Kind is KindSeries.
type MediaReference struct {
	CanonicalID string
	Kind        Kind
	Season      int
	Episode     int
}

// Parse splits a composite identifier into a MediaReference.
//
// One segment is a movie. Three or more segments are a series reference:
// canonical id, season, episode; season and episode must be positive
// integers. Any other shape fails with ErrMalformedIdentifier.
func Parse(compositeID string) (MediaReference, error) {
	parts := strings.Split(compositeID, ":")

	switch {
	case len(parts) == 1:
		id := strings.TrimSpace(parts[0])
		if id == "" {
			return MediaReference{}, ErrMalformedIdentifier
		}
		return MediaReference{CanonicalID: id, Kind: KindMovie}, nil

	case len(parts) >= 3:
		id := strings.TrimSpace(parts[0])
		if id == "" {
			return MediaReference{}, ErrMalformedIdentifier
		}
		season, err := strconv.Atoi(parts[1])
		if err != nil || season <= 0 {
			return MediaReference{}, ErrMalformedIdentifier
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil || episode <= 0 {
			return MediaReference{}, ErrMalformedIdentifier
		}
		return MediaReference{
			CanonicalID: id,
			Kind:        KindSeries,
			Season:      season,
			Episode:     episode,
		}, nil

	default:
		return MediaReference{}, ErrMalformedIdentifier
	}
}
