// Package queue pushes lightweight event notifications onto a Redis list for
// downstream consumers. Delivery is best effort: a missing or unreachable
// Redis never fails the write path.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Notification struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier struct {
	client *redis.Client
	queue  string
	logger *zap.Logger
}

// NewNotifier returns a notifier pushing to the named list. A nil client
// disables notifications entirely.
func NewNotifier(client *redis.Client, queue string, logger *zap.Logger) *Notifier {
	return &Notifier{client: client, queue: queue, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, notification Notification) {
	if n == nil || n.client == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Warn("queue.marshal_failed",
			zap.Error(err),
			zap.String("event_id", notification.EventID))
		return
	}

	if err := n.client.LPush(ctx, n.queue, payload).Err(); err != nil {
		n.logger.Warn("queue.push_failed",
			zap.Error(err),
			zap.String("event_id", notification.EventID))
	}
}
