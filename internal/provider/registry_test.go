package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	id string
}

func (p *stubProvider) ID() string    { return p.id }
func (p *stubProvider) Label() string { return p.id }
func (p *stubProvider) Search(context.Context, Query) []Record {
	return nil
}
func (p *stubProvider) DownloadLocator(string) Locator { return Locator{} }

func TestRegistryOrderAndLookup(t *testing.T) {
	a := &stubProvider{id: "alpha"}
	b := &stubProvider{id: "beta"}

	r, err := NewRegistry(a, b)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []Provider{a, b}, r.All())

	got, ok := r.Get("beta")
	assert.True(t, ok)
	assert.Same(t, b, got)

	got, ok = r.Get(" Alpha ")
	assert.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Get("gamma")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(&stubProvider{id: "alpha"}, &stubProvider{id: "Alpha"})
	assert.Error(t, err)
}

func TestRegistryRejectsEmptyID(t *testing.T) {
	_, err := NewRegistry(&stubProvider{id: "  "})
	assert.Error(t, err)
}

func TestRegistryRejectsNil(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)
}
