package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"bookstore-backoffice/internal/domains/order/model"
	"bookstore-backoffice/internal/shared"
)

// OrderChangedPayload is the body of an order:changed task.
type OrderChangedPayload struct {
	Action string       `json:"action"`
	Order  *model.Order `json:"order"`
}

// AsynqSink enqueues order change events for the background worker.
type AsynqSink struct {
	client *asynq.Client
}

func NewAsynqSink(redisAddr, redisPassword string, redisDB int) *AsynqSink {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqSink{client: client}
}

func (s *AsynqSink) Publish(ctx context.Context, action string, order *model.Order) error {
	payload, err := json.Marshal(OrderChangedPayload{Action: action, Order: order})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	task := asynq.NewTask(shared.TypeOrderChanged, payload)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue order event: %w", err)
	}

	return nil
}

func (s *AsynqSink) Close() error {
	return s.client.Close()
}
