package worker

import (
	"context"
	"encoding/json"
)

// Notification is a push notification to surface to the user.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Badge string `json:"badge"`
}

// Notifier abstracts the platform notification surface.
type Notifier interface {
	Show(ctx context.Context, n Notification) error
}

// HandlePush shows a notification built from a JSON push payload.
// Best-effort: a malformed payload or a missing notifier drops the
// notification silently, it never crashes the worker.
func (w *Worker) HandlePush(ctx context.Context, payload []byte) {
	if w.notifier == nil {
		return
	}

	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		PushesDropped.Inc()
		w.logger.Debug().Err(err).Msg("Dropping malformed push payload")
		return
	}
	if n.Title == "" {
		PushesDropped.Inc()
		w.logger.Debug().Msg("Dropping push payload without title")
		return
	}

	if err := w.notifier.Show(ctx, n); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to show notification")
	}
}

// HandleNotificationClick focuses an open page at the root document, or
// opens a new one when none is open.
func (w *Worker) HandleNotificationClick(ctx context.Context) {
	if w.clients == nil {
		return
	}

	focused, err := w.clients.Focus(ctx, w.RootURL())
	if err != nil {
		w.logger.Warn().Err(err).Msg("Failed to focus page")
		return
	}
	if focused {
		return
	}
	if err := w.clients.OpenWindow(ctx, w.RootURL()); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to open page")
	}
}
