package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantsMovie(t *testing.T) {
	got := Variants(Query{Title: "The Matrix", Year: 1999})
	assert.Equal(t, []string{"The Matrix"}, got)
}

func TestVariantsSeries(t *testing.T) {
	got := Variants(Query{Title: "Dark", Season: 1, Episode: 5})
	assert.Equal(t, []string{"Dark s01e05", "Dark 1x05", "Dark"}, got)
}

func TestVariantsSeriesDoubleDigit(t *testing.T) {
	got := Variants(Query{Title: "Friends", Season: 10, Episode: 17})
	assert.Equal(t, []string{"Friends s10e17", "Friends 10x17", "Friends"}, got)
}

func TestVariantsSeasonWithoutEpisode(t *testing.T) {
	// Season/episode are set together upstream; a lone season falls back
	// to the plain title.
	got := Variants(Query{Title: "Dark", Season: 1})
	assert.Equal(t, []string{"Dark"}, got)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "Dark s01e05|2017", CacheKey("Dark s01e05", 2017))
	assert.Equal(t, "Dark|0", CacheKey("Dark", 0))
	assert.NotEqual(t, CacheKey("Dark", 2017), CacheKey("Dark", 0))
}
