package search

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subflow/subflow/internal/mediaid"
	"github.com/subflow/subflow/internal/metadata"
	"github.com/subflow/subflow/internal/provider"
)

type fakeProvider struct {
	id      string
	records []provider.Record
	delay   time.Duration
	gotQ    provider.Query
}

func (p *fakeProvider) ID() string    { return p.id }
func (p *fakeProvider) Label() string { return p.id }

func (p *fakeProvider) Search(_ context.Context, q provider.Query) []provider.Record {
	p.gotQ = q
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.records
}

func (p *fakeProvider) DownloadLocator(string) provider.Locator { return provider.Locator{} }

func rec(providerID, externalID string) provider.Record {
	return provider.Record{Provider: providerID, ExternalID: externalID, Title: externalID}
}

func newService(t *testing.T, providers ...provider.Provider) *Service {
	t.Helper()
	registry, err := provider.NewRegistry(providers...)
	require.NoError(t, err)
	return NewService(registry, zerolog.Nop())
}

func matrixMeta() metadata.MediaMetadata {
	return metadata.MediaMetadata{Title: "The Matrix", Year: 1999, Kind: mediaid.KindMovie}
}

func TestSearchAllMergesInRegistrationOrder(t *testing.T) {
	// The slower first provider must still come first in the merge.
	a := &fakeProvider{id: "a", delay: 30 * time.Millisecond, records: []provider.Record{rec("a", "1"), rec("a", "2")}}
	b := &fakeProvider{id: "b", records: []provider.Record{rec("b", "1")}}
	s := newService(t, a, b)

	got := s.SearchAll(context.Background(), matrixMeta(), 0, 0, "tt0133093")

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Provider)
	assert.Equal(t, "a", got[1].Provider)
	assert.Equal(t, "b", got[2].Provider)
}

func TestSearchAllDeduplicates(t *testing.T) {
	a := &fakeProvider{id: "a", records: []provider.Record{
		rec("a", "1"),
		rec("a", "1"),
		rec("a", "2"),
	}}
	b := &fakeProvider{id: "b", records: []provider.Record{
		// Same external id as a's records but a different provider; kept.
		rec("b", "1"),
	}}
	s := newService(t, a, b)

	got := s.SearchAll(context.Background(), matrixMeta(), 0, 0, "")

	require.Len(t, got, 3)
	seen := make(map[[2]string]bool)
	for _, r := range got {
		key := [2]string{r.Provider, r.ExternalID}
		assert.False(t, seen[key], "duplicate (provider, externalID): %v", key)
		seen[key] = true
	}
}

func TestSearchAllEmptyProviderDoesNotSuppressOthers(t *testing.T) {
	// An adapter that failed internally settles with an empty list.
	failed := &fakeProvider{id: "broken"}
	ok := &fakeProvider{id: "ok", records: []provider.Record{rec("ok", "5")}}
	s := newService(t, failed, ok)

	got := s.SearchAll(context.Background(), matrixMeta(), 0, 0, "")

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Provider)
}

func TestSearchAllPassesQuery(t *testing.T) {
	p := &fakeProvider{id: "a"}
	s := newService(t, p)

	meta := metadata.MediaMetadata{Title: "Dark", Year: 2017, Kind: mediaid.KindSeries}
	s.SearchAll(context.Background(), meta, 1, 5, "tt5753856")

	assert.Equal(t, provider.Query{
		Title:       "Dark",
		Year:        2017,
		Season:      1,
		Episode:     5,
		CanonicalID: "tt5753856",
	}, p.gotQ)
}

func TestSearchAllNoProviders(t *testing.T) {
	s := newService(t)
	got := s.SearchAll(context.Background(), matrixMeta(), 0, 0, "")
	assert.Empty(t, got)
}

func TestSearchAllScenario(t *testing.T) {
	a := &fakeProvider{id: "subsunacs", records: []provider.Record{rec("subsunacs", "94087")}}
	b := &fakeProvider{id: "sabbz", records: []provider.Record{rec("sabbz", "55512")}}
	c := &fakeProvider{id: "yavka", records: []provider.Record{rec("yavka", "30211")}}
	s := newService(t, a, b, c)

	got := s.SearchAll(context.Background(), matrixMeta(), 0, 0, "tt0133093")

	require.NotEmpty(t, got)
	registered := map[string]bool{"subsunacs": true, "sabbz": true, "yavka": true}
	pairs := make(map[string]bool)
	for _, r := range got {
		assert.True(t, registered[r.Provider])
		key := r.Provider + "/" + r.ExternalID
		assert.False(t, pairs[key])
		pairs[key] = true
	}
}
