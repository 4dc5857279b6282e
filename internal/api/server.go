// Package api is the HTTP shell over the subtitle pipeline. It stays
// thin: handlers translate between addon routes and the core services,
// all real work happens in metadata, search and subtitle.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/mediaid"
	"github.com/subflow/subflow/internal/metadata"
	"github.com/subflow/subflow/internal/provider"
	"github.com/subflow/subflow/internal/search"
	"github.com/subflow/subflow/internal/subtitle"
)

// Version is reported in the manifest and on /health.
const Version = "1.0.0"

// Server handles HTTP requests for the addon.
type Server struct {
	echo     *echo.Echo
	resolver *metadata.Resolver
	searcher *search.Service
	proxy    *subtitle.Proxy
	logger   zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(resolver *metadata.Resolver, searcher *search.Service, proxy *subtitle.Proxy, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		resolver: resolver,
		searcher: searcher,
		proxy:    proxy,
		logger:   logger.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	// Addon clients are browsers and media centers on other origins.
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))
}

// setupRoutes configures addon routes.
func (s *Server) setupRoutes() {
	// The ".json" and ".srt" extensions live inside the final path
	// segment, so handlers trim them from the bound parameter.
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/manifest.json", s.getManifest)
	s.echo.GET("/subtitles/:type/:id", s.listSubtitles)
	s.echo.GET("/subtitles/:type/:id/:extra", s.listSubtitles)
	s.echo.GET("/download/:provider/:externalId", s.streamSubtitle)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) getManifest(c echo.Context) error {
	return c.JSON(http.StatusOK, Manifest{
		ID:          "community.subflow",
		Version:     Version,
		Name:        "Subflow",
		Description: "Bulgarian subtitles from subsunacs.net, subs.sab.bz and yavka.net",
		Resources:   []string{"subtitles"},
		Types:       []string{"movie", "series"},
		IDPrefixes:  []string{"tt"},
	})
}

// listSubtitles resolves a composite id to candidate subtitles across all
// providers. Download URLs are built from the inbound request's own
// scheme and host so the addon works behind any proxy or port without
// global configuration.
func (s *Server) listSubtitles(c echo.Context) error {
	rawID := strings.TrimSuffix(c.Param("id"), ".json")

	ref, err := mediaid.Parse(rawID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("malformed identifier"))
	}

	ctx := c.Request().Context()

	meta, err := s.resolver.Resolve(ctx, ref.CanonicalID, ref.Kind)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("id", ref.CanonicalID).
			Msg("Metadata resolution failed")
		// No metadata means no searchable title; an empty list keeps
		// clients from treating the addon as broken.
		return c.JSON(http.StatusOK, SubtitlesResponse{Subtitles: []SubtitleEntry{}})
	}

	records := s.searcher.SearchAll(ctx, meta, ref.Season, ref.Episode, ref.CanonicalID)

	base := requestBaseURL(c)
	entries := make([]SubtitleEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, subtitleEntry(base, rec))
	}

	return c.JSON(http.StatusOK, SubtitlesResponse{Subtitles: entries})
}

// streamSubtitle proxies one subtitle download, normalized to UTF-8 SRT.
func (s *Server) streamSubtitle(c echo.Context) error {
	providerID := c.Param("provider")
	externalID := strings.TrimSuffix(c.Param("externalId"), ".srt")

	normalized, err := s.proxy.Fetch(c.Request().Context(), providerID, externalID)
	if err != nil {
		switch {
		case errors.Is(err, subtitle.ErrInvalidIdentifier):
			return c.JSON(http.StatusBadRequest, errorBody("invalid subtitle identifier"))
		case errors.Is(err, subtitle.ErrUnknownProvider):
			return c.JSON(http.StatusNotFound, errorBody("unknown provider"))
		case errors.Is(err, subtitle.ErrArtifactNotFound):
			return c.JSON(http.StatusNotFound, errorBody("no subtitle in archive"))
		default:
			return c.JSON(http.StatusBadGateway, errorBody("upstream unavailable"))
		}
	}

	return c.Blob(http.StatusOK, normalized.ContentType, []byte(normalized.Text))
}

// requestBaseURL reconstructs the externally visible base URL of the
// inbound request, honoring forwarding headers set by reverse proxies.
func requestBaseURL(c echo.Context) string {
	scheme := c.Scheme()
	if fwd := c.Request().Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	host := c.Request().Host
	if fwd := c.Request().Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

func subtitleEntry(base string, rec provider.Record) SubtitleEntry {
	return SubtitleEntry{
		ID:   rec.Provider + "-" + rec.ExternalID,
		URL:  base + "/download/" + rec.Provider + "/" + rec.ExternalID + ".srt",
		Lang: "bg",
		Name: entryName(rec),
	}
}

// entryName renders a human label: title plus whatever release details
// the listing carried.
func entryName(rec provider.Record) string {
	parts := []string{rec.Title}
	if rec.Year != "" {
		parts = append(parts, "("+rec.Year+")")
	}
	if rec.FrameRate != "" {
		parts = append(parts, rec.FrameRate+" fps")
	}
	parts = append(parts, "["+rec.ProviderLabel+"]")
	return strings.Join(parts, " ")
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
