package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSlogJSONBackend(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("session_id", "abc")).Debug(context.Background(), "site locked",
		Float("longitude_deg", -105.5), Bool("locked", true))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "site locked" || rec["session_id"] != "abc" || rec["longitude_deg"] != -105.5 {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestSlogLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %q", buf.String())
	}
	log.Warn(context.Background(), "kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn not written: %q", buf.String())
	}
}

func TestZapJSONBackend(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Backend: "zap", Output: &buf})

	log.Debug(context.Background(), "dropped")
	log.With(Int("attempt", 2)).Error(context.Background(), "parse failed", Err(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "parse failed" || rec["error"] != "boom" || rec["attempt"] != float64(2) {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNoopAndContext(t *testing.T) {
	ctx := context.Background()
	if LoggerFromContext(ctx) != nil {
		t.Fatalf("expected no logger on empty context")
	}
	ctx = ContextWithLogger(ctx, nil)
	l := LoggerFromContext(ctx)
	if l == nil {
		t.Fatalf("expected noop logger from context")
	}
	l.With(String("k", "v")).Error(ctx, "ignored")
}
