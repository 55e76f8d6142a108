// Package progress carries structured notifications out of the fan-out
// orchestrators. Sinks are fire-and-forget: an Emit call must never
// block or fail the work that produced it.
package progress

import (
	"encoding/json"
	"log"
	"sync"
)

// Event types emitted by the orchestrators.
const (
	SearchStarted     = "search_started"
	SearchCompleted   = "search_completed"
	SearchError       = "search_error"
	RetrieveStarted   = "retrieve_started"
	RetrieveCompleted = "retrieve_completed"
	RetrieveError     = "retrieve_error"
)

// Event is one progress notification.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Sink receives progress events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(eventType string, payload map[string]any)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(string, map[string]any) {}

// LogSink writes each event as a single log line.
type LogSink struct {
	Logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.New(log.Writer(), "[PROGRESS] ", log.LstdFlags)
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) Emit(eventType string, payload map[string]any) {
	b, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Printf("%s (unserializable payload: %v)", eventType, err)
		return
	}
	s.Logger.Printf("%s %s", eventType, b)
}

// ChanSink buffers events on a channel for streaming to a client. When
// the buffer is full the event is dropped: a slow consumer must not
// stall the orchestrator.
type ChanSink struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func NewChanSink(buffer int) *ChanSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChanSink{ch: make(chan Event, buffer)}
}

func (s *ChanSink) Emit(eventType string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- Event{Type: eventType, Payload: payload}:
	default:
	}
}

// Events exposes the receive side of the sink.
func (s *ChanSink) Events() <-chan Event { return s.ch }

// Close stops accepting events and closes the channel so consumers can
// finish draining.
func (s *ChanSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Tee fans one event out to several sinks.
type Tee []Sink

func (t Tee) Emit(eventType string, payload map[string]any) {
	for _, s := range t {
		if s != nil {
			s.Emit(eventType, payload)
		}
	}
}
