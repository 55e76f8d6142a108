package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/tools/web_retrieve"
	retrievemodels "github.com/fetchkit/fetchkit/tools/web_retrieve/models"
	"github.com/fetchkit/fetchkit/tools/web_search"
	searchmodels "github.com/fetchkit/fetchkit/tools/web_search/models"
)

func (s *Server) handleSearch(c echo.Context) error {
	var req searchmodels.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := s.search.Search(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, web_search.ErrNoQueries) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRetrieve(c echo.Context) error {
	var req retrievemodels.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := s.retrieve.Retrieve(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, web_retrieve.ErrNoURLs) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSearchStream(c echo.Context) error {
	var req searchmodels.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Queries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, web_search.ErrNoQueries.Error())
	}
	return s.streamBatch(c, func(sink progress.Sink) (any, error) {
		return s.search.WithSink(sink).Search(c.Request().Context(), req)
	})
}

func (s *Server) handleRetrieveStream(c echo.Context) error {
	var req retrievemodels.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.URLs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, web_retrieve.ErrNoURLs.Error())
	}
	return s.streamBatch(c, func(sink progress.Sink) (any, error) {
		return s.retrieve.WithSink(sink).Retrieve(c.Request().Context(), req)
	})
}

// streamBatch runs one batch while relaying its progress events as SSE
// frames, then sends a terminal "result" event with the full response.
func (s *Server) streamBatch(c echo.Context, run func(progress.Sink) (any, error)) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	flusher, ok := resp.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "streaming unsupported")
	}

	sink := progress.NewChanSink(256)
	done := make(chan struct{})
	var result any
	var runErr error
	go func() {
		defer close(done)
		defer sink.Close()
		result, runErr = run(sink)
	}()

	for ev := range sink.Events() {
		if err := writeSSE(resp, flusher, ev.Type, ev.Payload); err != nil {
			<-done
			return nil
		}
	}
	<-done

	if runErr != nil {
		return writeSSE(resp, flusher, "error", map[string]any{"error": runErr.Error()})
	}
	return writeSSE(resp, flusher, "result", result)
}

func writeSSE(resp *echo.Response, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := resp.Write([]byte("event: " + event + "\ndata: " + string(data) + "\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
