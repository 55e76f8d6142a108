package progress

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestChanSinkDeliversEvents(t *testing.T) {
	t.Parallel()

	sink := NewChanSink(4)
	sink.Emit(SearchStarted, map[string]any{"index": 0})
	sink.Emit(SearchCompleted, map[string]any{"index": 0})
	sink.Close()

	var got []Event
	for ev := range sink.Events() {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Type != SearchStarted || got[1].Type != SearchCompleted {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestChanSinkDropsWhenFull(t *testing.T) {
	t.Parallel()

	sink := NewChanSink(1)
	// A full buffer must not block the emitter.
	sink.Emit("a", nil)
	sink.Emit("b", nil)
	sink.Close()

	n := 0
	for range sink.Events() {
		n++
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 buffered event, got %d", n)
	}
}

func TestChanSinkEmitAfterClose(t *testing.T) {
	t.Parallel()

	sink := NewChanSink(4)
	sink.Close()
	// Must be a no-op, not a panic.
	sink.Emit("late", nil)
	sink.Close() // idempotent
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewLogSink(log.New(&buf, "", 0))
	sink.Emit(RetrieveStarted, map[string]any{"url": "https://example.com"})

	line := buf.String()
	if !strings.Contains(line, RetrieveStarted) || !strings.Contains(line, "https://example.com") {
		t.Fatalf("log line = %q", line)
	}
}

func TestTee(t *testing.T) {
	t.Parallel()

	a := NewChanSink(4)
	b := NewChanSink(4)
	Tee{a, b, nil}.Emit("x", nil)
	a.Close()
	b.Close()

	if ev := <-a.Events(); ev.Type != "x" {
		t.Fatalf("first sink missed the event: %v", ev)
	}
	if ev := <-b.Events(); ev.Type != "x" {
		t.Fatalf("second sink missed the event: %v", ev)
	}
}
