// Package server exposes the acquisition tools over HTTP: plain JSON
// endpoints for one-shot calls plus an SSE variant that streams
// per-item progress while a batch runs.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/internal/telemetry"
	"github.com/fetchkit/fetchkit/tools/web_retrieve"
	"github.com/fetchkit/fetchkit/tools/web_search"
)

// Server wires the tools, sinks and metrics behind an echo instance.
type Server struct {
	cfg      *config.Config
	echo     *echo.Echo
	search   *web_search.Tool
	retrieve *web_retrieve.Tool
	logger   *log.Logger
}

// New assembles the server from configuration: progress sink, metrics,
// both tools, middleware and routes.
func New(cfg *config.Config) *Server {
	logger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	var sink progress.Sink
	switch cfg.Progress.Sink {
	case "redis":
		sink = progress.NewRedisSink(cfg.Progress.Redis, nil)
	case "none":
		sink = progress.NopSink{}
	default:
		sink = progress.NewLogSink(nil)
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.New(prometheus.DefaultRegisterer)
	}

	s := &Server{
		cfg:      cfg,
		search:   web_search.New(cfg.Search, sink, nil, metrics),
		retrieve: web_retrieve.New(cfg.Retrieve, sink, nil, metrics),
		logger:   logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	api := e.Group("/api")
	api.POST("/search", s.handleSearch)
	api.POST("/retrieve", s.handleRetrieve)
	if cfg.Server.StreamEnabled {
		api.POST("/search/stream", s.handleSearchStream)
		api.POST("/retrieve/stream", s.handleRetrieveStream)
	}

	s.echo = e
	return s
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.logger.Printf("listening on %s", s.cfg.Server.Address)
	return s.echo.Start(s.cfg.Server.Address)
}
