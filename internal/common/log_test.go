// File path: internal/common/log_test.go
package common

import (
	"log/slog"
	"testing"
	"time"
)

func TestSinkCapturesEntries(t *testing.T) {
	s := newLogSink(10)
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "analysis complete", 0)
	rec.AddAttrs(slog.String("project", "demo"), slog.Int("programs", 3))
	s.capture(rec)

	entries := s.entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "analysis complete" || entry.Level != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Attributes["project"] != "demo" {
		t.Fatalf("unexpected attributes: %+v", entry.Attributes)
	}
	if got, ok := entry.Attributes["programs"].(int64); !ok || got != 3 {
		t.Fatalf("unexpected programs attribute: %+v", entry.Attributes["programs"])
	}
}

func TestSinkBoundsHistory(t *testing.T) {
	s := newLogSink(3)
	for i := 0; i < 5; i++ {
		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "entry", 0)
		s.capture(rec)
	}
	if entries := s.entries(); len(entries) != 3 {
		t.Fatalf("expected capped history of 3, got %d", len(entries))
	}
}

func TestLoggerSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("expected singleton logger")
	}
}
