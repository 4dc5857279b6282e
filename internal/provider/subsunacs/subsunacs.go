// Package subsunacs adapts subsunacs.net as a subtitle provider. The site
// serves windows-1251 HTML and searches via a POST form.
package subsunacs

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
	id    = "subsunacs"
	label = "Subsunacs.net"
)

// detail page links look like /subtitles/the-matrix-94087/
var detailRe = regexp.MustCompile(`-(\d+)/?$`)

// Adapter implements provider.Provider for subsunacs.net.
type Adapter struct {
	client  *provider.ScrapeClient
	baseURL string
	cache   *cache.Cache[[]provider.Record]
	logger  zerolog.Logger
}

// New creates the adapter against baseURL.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client:  provider.NewScrapeClient(timeout, true),
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.New[[]provider.Record](provider.SearchCacheTTL),
		logger:  logger.With().Str("component", "provider").Str("provider", id).Logger(),
	}
}

func (a *Adapter) ID() string    { return id }
func (a *Adapter) Label() string { return label }

// Search runs the shared variant loop against the site's search form.
func (a *Adapter) Search(ctx context.Context, q provider.Query) []provider.Record {
	return provider.RunSearch(ctx, q, a.cache, a.logger, a.searchOnce)
}

func (a *Adapter) searchOnce(ctx context.Context, variant string, year int) ([]provider.Record, error) {
	form := url.Values{}
	form.Set("m", variant)
	form.Set("l", "-1")
	form.Set("t", "")
	form.Set("action", "Search")
	if year > 0 {
		form.Set("y", strconv.Itoa(year))
	}

	doc, err := a.client.PostForm(ctx, a.baseURL+"/search.php", a.baseURL+"/", form)
	if err != nil {
		return nil, err
	}
	return a.parseListing(doc), nil
}

// parseListing walks the result table. Rows without a recognizable detail
// link are skipped; any malformed row degrades to a partially filled
// record rather than failing the parse.
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

		cells := row.Find("td")
		records = append(records, provider.Record{
			Provider:      id,
			ProviderLabel: label,
			ExternalID:    m[1],
			Title:         title,
			Year:          yearFromTitle(title),
			FrameRate:     strings.TrimSpace(cells.Eq(3).Text()),
			DownloadCount: strings.TrimSpace(cells.Eq(5).Text()),
			Uploader:      strings.TrimSpace(row.Find(`a[href*="?t=1"]`).First().Text()),
		})
	})

	return records
}

var titleYearRe = regexp.MustCompile(`\((\d{4})\)`)

func yearFromTitle(title string) string {
	if m := titleYearRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// DownloadLocator maps an external id onto the site's download endpoint.
// Pure string assembly; no network access.
func (a *Adapter) DownloadLocator(externalID string) provider.Locator {
	return provider.Locator{
		URL:     fmt.Sprintf("%s/get.php?id=%s", a.baseURL, externalID),
		Referer: a.baseURL + "/",
	}
}
