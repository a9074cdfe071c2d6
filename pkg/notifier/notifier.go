package notifier

import (
	"context"
	"log/slog"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// Notifier defines the interface for a component that queues partner notifications
// for asynchronous delivery.
type Notifier interface {
	// Notify enqueues a notification. Delivery happens out of band.
	Notify(ctx context.Context, n *models.Notification) error
}

// NoOpNotifier drops notifications after logging them. Used for local runs without a queue.
type NoOpNotifier struct{}

// Make sure we conform to the interface
var _ Notifier = NoOpNotifier{}

func (NoOpNotifier) Notify(ctx context.Context, n *models.Notification) error {
	slog.InfoContext(ctx, "notification dropped, no queue configured", "type", n.Type, "owner_id", n.OwnerID, "token", n.Token)
	return nil
}
