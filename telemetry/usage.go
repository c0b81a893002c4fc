package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/viant/alloctrack/tracking"
)

// Usage is one group's live attributed bytes as observed by a reporting
// cycle. Byte counts include per-allocation bookkeeping overhead.
type Usage struct {
	GroupID                       tracking.GroupID `json:"groupID"`
	CurrentMemoryAllocatedInBytes int64            `json:"currentMemoryAllocatedInBytes"`
	CapturedAt                    time.Time        `json:"capturedAt"`
}

// Sink receives the non-zero usage records of one reporting cycle. The
// slice is reused between cycles; implementations that retain records must
// copy them before returning.
type Sink interface {
	Emit(ctx context.Context, usages []Usage) error
}

// LogSink writes one line per usage record via the standard logger.
type LogSink struct {
	Logger *log.Logger
}

// Emit logs every record in the batch.
func (s *LogSink) Emit(ctx context.Context, usages []Usage) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, usage := range usages {
		logger.Printf("group memory usage groupID=%d currentMemoryAllocatedInBytes=%d", usage.GroupID, usage.CurrentMemoryAllocatedInBytes)
	}
	return nil
}

// MultiSink fans a batch out to every sink, returning the first error after
// all sinks have been offered the batch.
type MultiSink []Sink

// Emit forwards the batch to each sink in order.
func (s MultiSink) Emit(ctx context.Context, usages []Usage) error {
	var firstErr error
	for _, sink := range s {
		if err := sink.Emit(ctx, usages); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
