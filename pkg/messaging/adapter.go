package messaging

import (
	"context"
	"fmt"
)

// BrokerPublisher wraps events in a Message and publishes them on one channel.
type BrokerPublisher struct {
	broker  Broker
	channel string
}

func NewBrokerPublisher(broker Broker, channel string) *BrokerPublisher {
	return &BrokerPublisher{broker: broker, channel: channel}
}

func (p *BrokerPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	if err := p.broker.Publish(ctx, p.channel, Message{Type: eventType, Payload: payload}); err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, p.channel, err)
	}
	return nil
}

// Close closes the underlying broker.
func (p *BrokerPublisher) Close() error {
	return p.broker.Close()
}
