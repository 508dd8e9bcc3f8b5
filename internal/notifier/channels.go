package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogChannel writes alerts to the log. It stands in for the browser desktop
// notification when the consumer is a terminal, and doubles as the visible
// trace of every dispatched alert.
type LogChannel struct {
	Log *zap.Logger
}

func (c LogChannel) Name() string { return "desktop" }

func (c LogChannel) Send(_ context.Context, a Alert) error {
	c.Log.Info("TICKETS FOUND",
		zap.String("date", a.Date),
		zap.String("status", string(a.Status)),
		zap.String("message", a.Message),
		zap.String("book_url", a.URL),
	)
	return nil
}
