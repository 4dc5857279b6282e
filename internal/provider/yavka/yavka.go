// Package yavka adapts yavka.net as a subtitle provider. Unlike the other
// origins it searches over GET and serves UTF-8.
package yavka

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/cache"
	"github.com/subflow/subflow/internal/provider"
)

const (
	id    = "yavka"
	label = "Yavka.net"
)

// detail links look like /subtitles/12345-the-matrix
var detailRe = regexp.MustCompile(`/subtitles/(\d+)`)

// Adapter implements provider.Provider for yavka.net.
type Adapter struct {
	client  *provider.ScrapeClient
	baseURL string
	cache   *cache.Cache[[]provider.Record]
	logger  zerolog.Logger
}

// New creates the adapter against baseURL.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client:  provider.NewScrapeClient(timeout, false),
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.New[[]provider.Record](provider.SearchCacheTTL),
		logger:  logger.With().Str("component", "provider").Str("provider", id).Logger(),
	}
}

func (a *Adapter) ID() string    { return id }
func (a *Adapter) Label() string { return label }

// Search runs the shared variant loop against the site's search endpoint.
func (a *Adapter) Search(ctx context.Context, q provider.Query) []provider.Record {
	return provider.RunSearch(ctx, q, a.cache, a.logger, a.searchOnce)
}

func (a *Adapter) searchOnce(ctx context.Context, variant string, year int) ([]provider.Record, error) {
	params := url.Values{}
	params.Set("s", variant)
	params.Set("l", "BG")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	endpoint := fmt.Sprintf("%s/subtitles.php?%s", a.baseURL, params.Encode())
	doc, err := a.client.Get(ctx, endpoint, a.baseURL+"/")
	if err != nil {
		return nil, err
	}
	return a.parseListing(doc), nil
}

func (a *Adapter) parseListing(doc *goquery.Document) []provider.Record {
	records := make([]provider.Record, 0)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href*="/subtitles/"]`).First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		m := detailRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		records = append(records, provider.Record{
			Provider:      id,
			ProviderLabel: label,
			ExternalID:    m[1],
			Title:         title,
			Year:          strings.TrimSpace(row.Find("td.year").Text()),
			FrameRate:     strings.TrimSpace(row.Find("td.fps").Text()),
			Uploader:      strings.TrimSpace(row.Find("td.uploader").Text()),
			DownloadCount: strings.TrimSpace(row.Find("td.downloads").Text()),
		})
	})

	return records
}

// DownloadLocator maps an external id onto the download endpoint. Pure
// string assembly; no network access.
func (a *Adapter) DownloadLocator(externalID string) provider.Locator {
	return provider.Locator{
		URL:     fmt.Sprintf("%s/download.php?id=%s", a.baseURL, externalID),
		Referer: a.baseURL + "/",
	}
}
