package testutil

import (
	"context"
	"sync"
)

// PublishedEvent captures one Publish call.
type PublishedEvent struct {
	RoutingKey string
	Data       interface{}
}

// RecordingPublisher implements messaging.PublisherInterface and records
// every published event for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent

	// PublishErr, when set, is returned by every Publish call.
	PublishErr error
}

func (p *RecordingPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{RoutingKey: routingKey, Data: eventData})
	return p.PublishErr
}

func (p *RecordingPublisher) Close() error {
	return nil
}

// RoutingKeys returns the routing keys in publish order.
func (p *RecordingPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.Events))
	for i, e := range p.Events {
		keys[i] = e.RoutingKey
	}
	return keys
}
