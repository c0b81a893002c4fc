package alloctrack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/viant/alloctrack/messaging"
	mmemory "github.com/viant/alloctrack/messaging/memory"
	"github.com/viant/alloctrack/reporter"
	"github.com/viant/alloctrack/telemetry"
	"github.com/viant/alloctrack/tracking"
)

// Service is the process-lifetime owner of the allocation tracking state:
// the group registry, the counter table, the reporting loop and the
// telemetry sink. It is intended as a singleton; starting a second service
// in the same process would contend for the process-wide enable switch.
type Service struct {
	config       *Config
	registry     *tracking.Registry
	table        *tracking.CounterTable
	sink         telemetry.Sink
	queue        messaging.Queue[telemetry.Usage]
	publisher    *telemetry.Publisher
	reporter     *reporter.Service
	listeners    []*telemetry.Listener
	mux          sync.Mutex
	started      atomic.Bool
	shutdownOnce sync.Once
}

// New creates a service from the supplied options. Nothing runs and no
// tracking happens until Start.
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	ret.ensureBaseSetup()
	ret.reporter = reporter.New(ret.table, ret.sink, reporter.Config{Interval: ret.config.Reporter.Interval()})
	return ret
}

func (s *Service) ensureBaseSetup() {
	if s.registry == nil {
		s.registry = tracking.NewRegistry()
	}
	if s.table == nil {
		s.table = tracking.NewCounterTable()
	}
	if s.config.Telemetry.Vendor == VendorMemory || s.queue != nil {
		if s.queue == nil {
			s.queue = mmemory.NewQueue[telemetry.Usage](mmemory.Config{QueueBuffer: s.config.Telemetry.QueueBuffer})
		}
		s.publisher = telemetry.NewPublisher(s.queue)
	}
	if s.sink == nil {
		if s.publisher != nil {
			s.sink = s.publisher
		} else {
			s.sink = &telemetry.LogSink{}
		}
	}
}

// Start launches the reporting loop and then flips the process-wide enable
// switch, in that order, so the first tracked allocation already has a
// consumer for its counters. It is expected to run exactly once per
// process; a second call returns an error.
func (s *Service) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("allocation tracking already started")
	}
	go func() {
		if err := s.reporter.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("reporter stopped: %v", err)
		}
	}()
	tracking.Enable()
	return nil
}

// Shutdown disables tracking, stops the reporting loop and any running
// listeners. Counters stamped while tracking was on still drain on free, so
// a later inspection of the table remains consistent.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		tracking.Disable()
		s.reporter.Shutdown()
		s.mux.Lock()
		defer s.mux.Unlock()
		for _, listener := range s.listeners {
			listener.Stop()
		}
	})
}

// AcquireGroup allocates the next unused group id and returns a token
// owning it. The tags correlate the group with an external span identity;
// they travel on the token and, when the token is bound to a tracing span,
// onto the span's attributes.
func (s *Service) AcquireGroup(tags ...tracking.Tag) (*tracking.Token, error) {
	return s.registry.Acquire(tags...)
}

// Allocator wraps the given underlying allocator so allocations routed
// through it are attributed against this service's counter table. A nil
// underlying allocator defaults to arrow's default allocator.
func (s *Service) Allocator(underlying memory.Allocator) *tracking.GroupedAllocator {
	return tracking.NewGroupedAllocator(underlying, s.table)
}

// Table exposes the counter table for direct inspection (tests, debug
// endpoints). All reads are atomic per slot.
func (s *Service) Table() *tracking.CounterTable {
	return s.table
}

// Subscribe attaches a handler invoked once per emitted usage record.
// Requires the memory telemetry vendor or an explicit usage queue.
func (s *Service) Subscribe(handler func(telemetry.Usage)) error {
	if s.publisher == nil {
		return fmt.Errorf("subscribe requires the %s telemetry vendor", VendorMemory)
	}
	listener := telemetry.NewListener(s.publisher, handler)
	s.mux.Lock()
	s.listeners = append(s.listeners, listener)
	s.mux.Unlock()
	listener.Start()
	return nil
}

// Init wires a service from the supplied options and starts it. It is the
// canonical entrypoint, expected to be invoked once at process startup
// before significant allocation activity.
func Init(ctx context.Context, options ...Option) (*Service, error) {
	srv := New(options...)
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	return srv, nil
}
