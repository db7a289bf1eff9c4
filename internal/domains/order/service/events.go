package service

import (
	"context"

	"bookstore-backoffice/internal/domains/order/model"
)

// EventSink receives order change notifications after a lifecycle mutation
// commits. Publish failures are logged by the caller and never fail the
// operation that produced them.
type EventSink interface {
	Publish(ctx context.Context, action string, order *model.Order) error
}

// NoopSink drops all events. Used when the queue is disabled.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Publish(ctx context.Context, action string, order *model.Order) error {
	return nil
}
