package telemetry

import (
	"context"

	"github.com/viant/alloctrack/messaging"
)

// Publisher is a Sink that forwards each usage record onto a message queue,
// one message per record, so consumers can attach without coupling to the
// reporting loop.
type Publisher struct {
	queue messaging.Queue[Usage]
}

// NewPublisher returns a publisher backed by the provided queue.
func NewPublisher(queue messaging.Queue[Usage]) *Publisher {
	return &Publisher{queue: queue}
}

// Emit publishes every record in the batch.
func (p *Publisher) Emit(ctx context.Context, usages []Usage) error {
	for i := range usages {
		if err := p.queue.Publish(ctx, &usages[i]); err != nil {
			return err
		}
	}
	return nil
}

// Consume retrieves and acknowledges a single usage record.
func (p *Publisher) Consume(ctx context.Context) (*Usage, error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

var _ Sink = (*Publisher)(nil)
