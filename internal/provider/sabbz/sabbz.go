// Package sabbz adapts subs.sab.bz as a subtitle provider. Searches go
// through a POST form; the site serves windows-1251 HTML and exposes
// downloads by attachment id.
package sabbz

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
	id    = "sabbz"
	label = "Subs.sab.bz"
)

var attachRe = regexp.MustCompile(`attach_id=(\d+)`)

// Adapter implements provider.Provider for subs.sab.bz.
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
	form.Set("act", "search")
	form.Set("movie", variant)
	form.Set("select-language", "2")
	if year > 0 {
		form.Set("yr", strconv.Itoa(year))
	}

	doc, err := a.client.PostForm(ctx, a.baseURL+"/index.php?act=search", a.baseURL+"/", form)
	if err != nil {
		return nil, err
	}
	return a.parseListing(doc), nil
}

func (a *Adapter) parseListing(doc *goquery.Document) []provider.Record {
	records := make([]provider.Record, 0)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href*="attach_id="]`).First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		m := attachRe.FindStringSubmatch(href)
		if m == nil {
			return
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(row.Find("td").Eq(1).Text())
		}
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
			Uploader:      strings.TrimSpace(row.Find(`a[href*="act=search&movie=&t="]`).Text()),
			DownloadCount: strings.TrimSpace(row.Find("td.downloads").Text()),
		})
	})

	return records
}

// DownloadLocator maps an attachment id onto the download endpoint. Pure
// string assembly; no network access.
func (a *Adapter) DownloadLocator(externalID string) provider.Locator {
	return provider.Locator{
		URL:     fmt.Sprintf("%s/index.php?act=download&attach_id=%s", a.baseURL, externalID),
		Referer: a.baseURL + "/index.php?act=search",
	}
}
