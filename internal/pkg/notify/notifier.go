package notify

import (
	"context"
	"log/slog"

	"github.com/worktally/attendance-backend-go/internal/pkg/sse"
)

// Event kinds published by the attendance service.
const (
	KindCheckedIn  = "attendance.checked_in"
	KindCheckedOut = "attendance.checked_out"
	KindArchived   = "attendance.archived"
)

// Notifier pushes attendance events to interested parties. Publishing is
// best-effort: a failure is logged by the implementation and never propagated
// back into the attendance write path.
type Notifier interface {
	Publish(ctx context.Context, kind string, payload interface{}) error
}

// SSENotifier broadcasts events to the live dashboard stream.
type SSENotifier struct {
	hub *sse.Hub
}

func NewSSENotifier(hub *sse.Hub) *SSENotifier {
	return &SSENotifier{hub: hub}
}

func (n *SSENotifier) Publish(_ context.Context, kind string, payload interface{}) error {
	n.hub.Broadcast(sse.Event{Kind: kind, Data: payload})
	return nil
}

// Multi fans an event out to several notifiers. Failures are logged and
// swallowed so one slow or broken sink cannot starve the others.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Publish(ctx context.Context, kind string, payload interface{}) error {
	for _, n := range m.notifiers {
		if err := n.Publish(ctx, kind, payload); err != nil {
			slog.Error("Notifier publish failed", "kind", kind, "error", err)
		}
	}
	return nil
}
