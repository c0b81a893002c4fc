package reporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/alloctrack/telemetry"
	"github.com/viant/alloctrack/tracking"
)

// captureSink copies every batch onto a channel so tests can observe cycles
// without racing the reporter goroutine.
type captureSink struct {
	batches chan []telemetry.Usage
}

func newCaptureSink() *captureSink {
	return &captureSink{batches: make(chan []telemetry.Usage, 16)}
}

func (s *captureSink) Emit(ctx context.Context, usages []telemetry.Usage) error {
	batch := make([]telemetry.Usage, len(usages))
	copy(batch, usages)
	select {
	case s.batches <- batch:
	default:
	}
	return nil
}

func (s *captureSink) next(t *testing.T) []telemetry.Usage {
	t.Helper()
	select {
	case batch := <-s.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reporting cycle")
		return nil
	}
}

func TestService_EmitsNonZeroGroupsOnly(t *testing.T) {
	table := tracking.NewCounterTable()
	table.TraceAllocation(4096, 3)
	table.TraceAllocation(128, 9)

	sink := newCaptureSink()
	service := New(table, sink, Config{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = service.Start(ctx) }()
	defer service.Shutdown()

	batch := sink.next(t)
	require.Len(t, batch, 2)
	assert.Equal(t, tracking.GroupID(3), batch[0].GroupID)
	assert.Equal(t, int64(4096), batch[0].CurrentMemoryAllocatedInBytes)
	assert.Equal(t, tracking.GroupID(9), batch[1].GroupID)
	assert.False(t, batch[0].CapturedAt.IsZero())
}

func TestService_FirstScanIsImmediate(t *testing.T) {
	table := tracking.NewCounterTable()
	table.TraceAllocation(1024, 7)

	sink := newCaptureSink()
	// With an interval this long, only the startup scan can deliver a batch
	// within the test's deadline.
	service := New(table, sink, Config{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = service.Start(ctx) }()
	defer service.Shutdown()

	batch := sink.next(t)
	require.Len(t, batch, 1)
	assert.Equal(t, tracking.GroupID(7), batch[0].GroupID)
	assert.Equal(t, int64(1024), batch[0].CurrentMemoryAllocatedInBytes)
}

func TestService_GroupReturningToZeroDisappears(t *testing.T) {
	table := tracking.NewCounterTable()
	table.TraceAllocation(2048, 5)
	table.TraceAllocation(512, 6)

	sink := newCaptureSink()
	service := New(table, sink, Config{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = service.Start(ctx) }()
	defer service.Shutdown()

	batch := sink.next(t)
	require.Len(t, batch, 2)

	// Drain group 5; it must vanish from later cycles.
	table.TraceDeallocation(2048, 5)
	deadline := time.Now().Add(2 * time.Second)
	for {
		batch = sink.next(t)
		if len(batch) == 1 || time.Now().After(deadline) {
			break
		}
	}
	require.Len(t, batch, 1)
	assert.Equal(t, tracking.GroupID(6), batch[0].GroupID)
}

func TestService_Shutdown(t *testing.T) {
	table := tracking.NewCounterTable()
	service := New(table, &telemetry.LogSink{}, Config{Interval: time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- service.Start(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	service.Shutdown()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop after Shutdown")
	}
}

func TestService_ContextCancellation(t *testing.T) {
	table := tracking.NewCounterTable()
	service := New(table, &telemetry.LogSink{}, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop after context cancellation")
	}
}
