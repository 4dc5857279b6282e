package mediaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MediaReference
		wantErr bool
	}{
		{
			name:  "movie id",
			input: "tt0133093",
			want:  MediaReference{CanonicalID: "tt0133093", Kind: KindMovie},
		},
		{
			name:  "series id with season and episode",
			input: "tt0944947:1:5",
			want:  MediaReference{CanonicalID: "tt0944947", Kind: KindSeries, Season: 1, Episode: 5},
		},
		{
			name:  "series id with large numbers",
			input: "tt0903747:5:16",
			want:  MediaReference{CanonicalID: "tt0903747", Kind: KindSeries, Season: 5, Episode: 16},
		},
		{
			name:    "two segments",
			input:   "tt0944947:1",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "non-numeric season",
			input:   "tt0944947:one:5",
			wantErr: true,
		},
		{
			name:    "non-numeric episode",
			input:   "tt0944947:1:five",
			wantErr: true,
		},
		{
			name:    "zero season",
			input:   "tt0944947:0:5",
			wantErr: true,
		},
		{
			name:    "negative episode",
			input:   "tt0944947:1:-2",
			wantErr: true,
		},
		{
			name:    "empty id with season and episode",
			input:   ":1:5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedIdentifier)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExtraSegmentsIgnored(t *testing.T) {
	// Some callers append a filename hint after the episode; only the
	// first three segments matter.
	got, err := Parse("tt0944947:1:5:extra")
	assert.NoError(t, err)
	assert.Equal(t, KindSeries, got.Kind)
	assert.Equal(t, 1, got.Season)
	assert.Equal(t, 5, got.Episode)
}
