package subtitle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/subflow/subflow/internal/provider"
)

// DefaultFetchTimeout bounds one origin download. The sites are slow; a
// generous budget beats a retry.
const DefaultFetchTimeout = 25 * time.Second

const maxRedirects = 5

// fetchState is the terminal state of one origin download.
type fetchState int

const (
	fetchFailed fetchState = iota
	fetchSucceeded
	// fetchPartial means the connection died after payload bytes had
	// already arrived. Some origins close the socket abnormally once the
	// file is through; the bytes in hand are still a usable result.
	fetchPartial
)

// fetchOutcome carries the state and whatever bytes arrived. Body is
// non-empty exactly when state is fetchSucceeded or fetchPartial.
type fetchOutcome struct {
	state fetchState
	body  []byte
	err   error
}

type fetcher struct {
	client *http.Client
}

func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// fetch downloads the artifact at loc with browser headers. It never
// returns an in-band error: the tri-state outcome is the whole contract.
func (f *fetcher) fetch(ctx context.Context, loc provider.Locator) fetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return fetchOutcome{state: fetchFailed, err: err}
	}
	req.Header.Set("User-Agent", provider.BrowserUserAgent)
	if loc.Referer != "" {
		req.Header.Set("Referer", loc.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fetchOutcome{state: fetchFailed, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchOutcome{state: fetchFailed, err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if len(body) > 0 {
			return fetchOutcome{state: fetchPartial, body: body, err: err}
		}
		return fetchOutcome{state: fetchFailed, err: err}
	}
	if len(body) == 0 {
		return fetchOutcome{state: fetchFailed, err: fmt.Errorf("empty body")}
	}

	return fetchOutcome{state: fetchSucceeded, body: body}
}
