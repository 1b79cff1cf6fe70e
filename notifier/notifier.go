// Package notifier delivers completed intake records to the support desk.
package notifier

import (
	"context"
	"errors"

	"HelpBot/model"

	"github.com/rs/zerolog"
)

// Notifier is satisfied by every delivery channel in this package.
type Notifier interface {
	Notify(ctx context.Context, record model.IntakeRecord) error
}

// Multi delivers to every notifier in turn and joins their errors, so one
// failing channel does not stop the others.
type Multi struct {
	notifiers []namedNotifier
	logger    zerolog.Logger
}

type namedNotifier struct {
	name string
	Notifier
}

func NewMulti(logger zerolog.Logger) *Multi {
	return &Multi{logger: logger}
}

// Add registers n under name, used in logs.
func (m *Multi) Add(name string, n Notifier) *Multi {
	m.notifiers = append(m.notifiers, namedNotifier{name: name, Notifier: n})
	return m
}

func (m *Multi) Len() int {
	return len(m.notifiers)
}

func (m *Multi) Notify(ctx context.Context, record model.IntakeRecord) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, record); err != nil {
			m.logger.Warn().Err(err).Str("channel", n.name).Int64("user_id", record.UserID).Msg("notification channel failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
