// Package notifier delivers availability alerts and owns the at-most-once
// transition rule: one alert per entry into the actionable states, silence
// while the entry stays actionable, re-armed once it leaves.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// Alert is the payload handed to every channel.
type Alert struct {
	Date    string
	Status  availability.Status
	Message string
	Party   availability.Party
	URL     string
}

func (a Alert) Subject() string {
	return fmt.Sprintf("Tickets found for %s", a.Date)
}

func (a Alert) Body() string {
	return fmt.Sprintf(
		"Availability changed for %s.\n\nStatus: %s\n%s\nParty: %s\n\nBook here: %s\n",
		a.Date, a.Status, a.Message, a.Party, a.URL,
	)
}

// Channel is one delivery mechanism for an alert.
type Channel interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// Dispatcher fans an actionable result out to every configured channel.
// A channel failure never aborts the caller; errors are joined and returned
// so the flag policy can decide whether to re-arm.
type Dispatcher struct {
	channels []Channel
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, log: log}
}

func (d *Dispatcher) Notify(ctx context.Context, res availability.Result) error {
	a := Alert{
		Date:    res.Date,
		Status:  res.Status,
		Message: res.Message,
		Party:   res.Party,
		URL:     res.URL,
	}

	var errs []error
	for _, ch := range d.channels {
		if err := ch.Send(ctx, a); err != nil {
			d.log.Warn("notification dispatch failed",
				zap.String("channel", ch.Name()),
				zap.String("date", a.Date),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		d.log.Info("notification sent",
			zap.String("channel", ch.Name()),
			zap.String("date", a.Date),
			zap.String("status", string(a.Status)))
	}
	return errors.Join(errs...)
}
