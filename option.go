package alloctrack

import (
	"time"

	"github.com/viant/alloctrack/messaging"
	"github.com/viant/alloctrack/telemetry"
	"github.com/viant/alloctrack/tracking"
)

// Option customises the service during construction.
type Option func(s *Service)

// WithConfig sets the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithReporterInterval overrides the reporting cadence.
func WithReporterInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.config.Reporter.IntervalMs = int(interval / time.Millisecond)
	}
}

// WithSink sets the telemetry sink, bypassing vendor selection.
func WithSink(sink telemetry.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithUsageQueue sets the queue backing the memory telemetry vendor.
func WithUsageQueue(queue messaging.Queue[telemetry.Usage]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithRegistry sets the group registry.
func WithRegistry(registry *tracking.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithCounterTable sets the counter table.
func WithCounterTable(table *tracking.CounterTable) Option {
	return func(s *Service) {
		s.table = table
	}
}
