package telemetry

import (
	"context"
	"errors"
	"log"
)

// Listener drains a publisher's queue on a dedicated goroutine, invoking
// the handler once per usage record.
type Listener struct {
	publisher *Publisher
	handler   func(Usage)
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener returns a stopped listener for the given publisher.
func NewListener(publisher *Publisher, handler func(Usage)) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop cancels the listener goroutine.
func (l *Listener) Stop() {
	l.cancel()
}

// Start launches the consume loop.
func (l *Listener) Start() {
	go func() {
		for {
			usage, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("error consuming usage record: %v", err)
				continue
			}
			if usage != nil {
				l.handler(*usage)
			}
		}
	}()
}
