package api

// Manifest describes the addon to clients.
type Manifest struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
	Types       []string `json:"types"`
	IDPrefixes  []string `json:"idPrefixes"`
}

// SubtitlesResponse is the listing payload for one composite id.
type SubtitlesResponse struct {
	Subtitles []SubtitleEntry `json:"subtitles"`
}

// SubtitleEntry is one downloadable candidate.
type SubtitleEntry struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
	Name string `json:"name"`
}
