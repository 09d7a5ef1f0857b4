package vellum

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	p := NewSurfacePool()
	s, err := p.Checkout(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "surface allocated") {
		t.Errorf("no allocation record in %q", buf.String())
	}
	buf.Reset()
	p.Release(s)
	p.Release(s)
	if !strings.Contains(buf.String(), "surface released twice") {
		t.Errorf("no double-release warning in %q", buf.String())
	}
}

func TestNilLoggerSilences(t *testing.T) {
	SetLogger(nil)
	if logger().Enabled(nil, slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}
