package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFilterHandlerDropsMatchingRecords(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)

	h, err := NewFilterHandler(inner, []string{`^request failed$`, `retrying`})
	if err != nil {
		t.Fatalf("NewFilterHandler() error: %v", err)
	}
	logger := slog.New(h)

	logger.Error("request failed", "error", "connection reset")
	logger.Info("retrying request in 1s")
	logger.Info("download complete", "filename", "report.pdf")

	out := buf.String()
	if strings.Contains(out, "request failed") || strings.Contains(out, "retrying") {
		t.Errorf("suppressed records leaked through: %q", out)
	}
	if !strings.Contains(out, "download complete") {
		t.Errorf("unmatched record was dropped: %q", out)
	}
}

func TestFilterHandlerEmptyPatternsPassThrough(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewFilterHandler(slog.NewTextHandler(&buf, nil), nil)
	if err != nil {
		t.Fatalf("NewFilterHandler() error: %v", err)
	}

	slog.New(h).Info("request failed")

	if !strings.Contains(buf.String(), "request failed") {
		t.Error("pass-through handler dropped a record")
	}
}

func TestFilterHandlerInvalidPattern(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewFilterHandler(slog.NewTextHandler(&buf, nil), []string{`(`}); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func TestFilterHandlerWithAttrsKeepsPatterns(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewFilterHandler(slog.NewTextHandler(&buf, nil), []string{`^noisy$`})
	if err != nil {
		t.Fatalf("NewFilterHandler() error: %v", err)
	}

	logger := slog.New(h).With("component", "sink")
	logger.Info("noisy")
	logger.Info("kept")

	out := buf.String()
	if strings.Contains(out, "noisy") {
		t.Errorf("derived handler lost suppression patterns: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "component=sink") {
		t.Errorf("derived handler dropped attrs or records: %q", out)
	}
}
