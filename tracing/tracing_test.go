package tracing

import (
	"context"
	"os"
	"testing"

	"github.com/viant/alloctrack/tracking"
)

func TestTracingFile(t *testing.T) {
	_ = os.MkdirAll("testdata", 0o755)
	fname := "testdata/span_test.txt"
	_ = os.Remove(fname)

	if err := Init("alloctrack", "0.0.1", fname); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	registry := tracking.NewRegistry()
	token, err := registry.Acquire(tracking.Tag{Key: "component", Value: "ingest"})
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "ingest", token)
	if got := tracking.CurrentGroup(); got != token.ID() {
		t.Fatalf("expected group %d active inside span, got %d", token.ID(), got)
	}
	span.WithAttributes(map[string]string{"k": "v"})
	EndSpan(span, nil)
	_ = ctx

	if got := tracking.CurrentGroup(); got != tracking.DefaultGroupID {
		t.Fatalf("expected default group after span end, got %d", got)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("no data written to trace file")
	}
}

func TestInitSecondCallTouchesNoFile(t *testing.T) {
	// Make sure a provider is already installed, then re-initialise with a
	// fresh output path. The no-op call must not create or truncate it.
	if err := Init("alloctrack", "0.0.1", ""); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	_ = os.MkdirAll("testdata", 0o755)
	fname := "testdata/span_second_init.txt"
	_ = os.Remove(fname)

	if err := Init("alloctrack", "0.0.1", fname); err != nil {
		t.Fatalf("repeated init failed: %v", err)
	}
	if _, err := os.Stat(fname); !os.IsNotExist(err) {
		t.Fatalf("repeated init created %s", fname)
	}
}

func TestSpanWithoutToken(t *testing.T) {
	_, span := StartSpan(context.Background(), "untracked", nil)
	if got := tracking.CurrentGroup(); got != tracking.DefaultGroupID {
		t.Fatalf("expected default group for tokenless span, got %d", got)
	}
	EndSpan(span, nil)
}
