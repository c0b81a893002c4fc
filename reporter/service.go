package reporter

import (
	"context"
	"log"
	"time"

	"github.com/viant/alloctrack/internal/clock"
	"github.com/viant/alloctrack/telemetry"
	"github.com/viant/alloctrack/tracking"
)

// Config represents reporter service configuration
type Config struct {
	// Interval is how often the reporter scans the counter table
	Interval time.Duration
}

// DefaultConfig returns the default reporter configuration
func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Second,
	}
}

// Service periodically scans the counter table and emits one usage record
// per non-zero group to the configured sink. A group whose counter returns
// to zero simply stops appearing in subsequent cycles.
type Service struct {
	config     Config
	table      *tracking.CounterTable
	sink       telemetry.Sink
	shutdownCh chan struct{}
	batch      []telemetry.Usage
}

// New creates a new reporter service
func New(table *tracking.CounterTable, sink telemetry.Sink, config Config) *Service {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Service{
		config:     config,
		table:      table,
		sink:       sink,
		shutdownCh: make(chan struct{}),
		batch:      make([]telemetry.Usage, 0, tracking.GroupCapacity),
	}
}

// Start begins the reporting loop. An initial scan runs immediately so
// activity present at startup is visible without waiting a full interval;
// it then blocks until the context is cancelled or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	if err := s.reportCycle(ctx); err != nil {
		log.Printf("error emitting group memory usage: %v", err)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if err := s.reportCycle(ctx); err != nil {
				// Log error but continue
				log.Printf("error emitting group memory usage: %v", err)
			}
		}
	}
}

// reportCycle scans all counters once. The whole cycle runs with tracking
// suppressed so the reporter's own allocations are never attributed.
func (s *Service) reportCycle(ctx context.Context) error {
	guard := tracking.Suppress()
	defer guard.Release()

	capturedAt := clock.Now()
	batch := s.batch[:0]
	for id := tracking.GroupID(0); id < tracking.GroupCapacity; id++ {
		used := s.table.Load(id)
		if used == 0 {
			continue
		}
		batch = append(batch, telemetry.Usage{
			GroupID:                       id,
			CurrentMemoryAllocatedInBytes: used,
			CapturedAt:                    capturedAt,
		})
	}
	s.batch = batch
	if len(batch) == 0 {
		return nil
	}
	return s.sink.Emit(ctx, batch)
}

// Shutdown stops the reporting loop deterministically.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
}
