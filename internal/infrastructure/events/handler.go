package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"bookstore-backoffice/pkg/logger"
)

// HandleOrderChanged processes an order:changed task. The back office uses it
// as an audit trail; downstream consumers hang off the same queue.
func HandleOrderChanged(ctx context.Context, t *asynq.Task) error {
	var payload OrderChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	if payload.Order == nil {
		return fmt.Errorf("order event without order body")
	}

	logger.Info("Order changed", map[string]interface{}{
		"action":      payload.Action,
		"order_id":    payload.Order.ID.String(),
		"user_id":     payload.Order.UserID.String(),
		"total_price": payload.Order.TotalPrice.String(),
		"total_books": payload.Order.TotalBooks,
	})

	return nil
}
