package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HelpBot/metrics"
	"HelpBot/model"

	"github.com/rs/zerolog"
)

// SessionStore keeps in-progress sessions keyed by user id.
type SessionStore interface {
	// Begin inserts a fresh session waiting for the help question, replacing
	// any session the user already had.
	Begin(ctx context.Context, userID int64, displayName, username string) (*model.Session, error)
	// Get returns model.ErrSessionNotFound when the user has no live session.
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Remove(ctx context.Context, userID int64) error
	// Lock serializes work on one user's session.
	Lock(ctx context.Context, userID int64) (func(), error)
}

// Sweeper is implemented by stores that expire sessions themselves.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Notifier hands a completed record to the support desk.
type Notifier interface {
	Notify(ctx context.Context, record model.IntakeRecord) error
}

// Reply is what the transport sends back for one handled event.
type Reply struct {
	State     model.State
	Prompt    model.Prompt
	Hint      model.Hint
	Reference string // set on completion
}

type Engine struct {
	store    SessionStore
	notifier Notifier
	flow     Flow
	metrics  *metrics.Intake
	logger   zerolog.Logger
}

type Option func(*Engine)

func WithFlow(flow Flow) Option {
	return func(e *Engine) { e.flow = flow }
}

func WithMetrics(m *metrics.Intake) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine running the full flow, contacts verification
// included, unless WithFlow says otherwise.
func NewEngine(store SessionStore, notifier Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: notifier,
		flow:     Flow{ConfirmContacts: true},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle runs one event for one user to completion. Events the current state
// does not accept return ErrUnexpectedInput; non-start events from users
// without a conversation return ErrNoSession. Neither changes any state.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) (Reply, error) {
	unlock, err := e.store.Lock(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("lock session %d: %w", userID, err)
	}
	defer unlock()

	logger := e.logger.With().Int64("user_id", userID).Str("event", ev.Name()).Logger()

	var session *model.Session
	if start, ok := ev.(Start); ok {
		session, err = e.store.Begin(ctx, userID, start.Sender.DisplayName(), start.Sender.Username)
		if err != nil {
			return Reply{}, fmt.Errorf("begin session %d: %w", userID, err)
		}
		e.metrics.SessionStarted()
	} else {
		session, err = e.store.Get(ctx, userID)
		if errors.Is(err, model.ErrSessionNotFound) {
			return Reply{State: model.StateNone}, ErrNoSession
		}
		if err != nil {
			return Reply{}, fmt.Errorf("load session %d: %w", userID, err)
		}
	}

	from := session.State
	next, outcome, err := Transition(e.flow, from, &session.Record, ev)
	if err != nil {
		logger.Debug().Stringer("state", from).Msg("input ignored")
		return Reply{State: from}, err
	}
	session.State = next

	// Remove precedes delivery so a record is delivered at most once.
	if next == model.StateTerminated {
		if err := e.store.Remove(ctx, userID); err != nil {
			return Reply{}, fmt.Errorf("remove session %d: %w", userID, err)
		}
		if outcome.Deliver {
			e.deliver(ctx, logger, session.Record)
			e.metrics.SessionCompleted()
		} else {
			e.metrics.SessionCanceled()
		}
	} else if err := e.store.Save(ctx, session); err != nil {
		return Reply{}, fmt.Errorf("save session %d: %w", userID, err)
	}

	e.metrics.Transition(next.String())
	logger.Info().Stringer("from", from).Stringer("to", next).Msg("transition")

	reply := Reply{State: next, Prompt: outcome.Prompt, Hint: outcome.Hint}
	if outcome.Deliver {
		reply.Reference = session.Record.Reference()
	}
	return reply, nil
}

// deliver notifies synchronously. Failures are logged and never retried.
func (e *Engine) deliver(ctx context.Context, logger zerolog.Logger, record model.IntakeRecord) {
	if e.notifier == nil {
		logger.Warn().Msg("no notifier configured, record dropped")
		return
	}
	start := time.Now()
	err := e.notifier.Notify(ctx, record)
	e.metrics.Notified(time.Since(start), err)
	if err != nil {
		logger.Warn().Err(err).Str("reference", record.Reference()).Msg("error notifying support desk")
		return
	}
	logger.Info().Str("reference", record.Reference()).Msg("support desk notified")
}

// State reports where the user's conversation currently is.
func (e *Engine) State(ctx context.Context, userID int64) (model.State, error) {
	session, err := e.store.Get(ctx, userID)
	if errors.Is(err, model.ErrSessionNotFound) {
		return model.StateNone, nil
	}
	if err != nil {
		return model.StateNone, fmt.Errorf("load session %d: %w", userID, err)
	}
	return session.State, nil
}

// Sweep drops expired sessions when the store supports it.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	sweeper, ok := e.store.(Sweeper)
	if !ok {
		return 0, nil
	}
	n, err := sweeper.Sweep(ctx)
	if err != nil {
		return n, fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		e.logger.Info().Int("expired", n).Msg("stalled sessions dropped")
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.Sweep(ctx); err != nil {
				e.logger.Error().Err(err).Msg("error sweeping sessions")
			}
		}
	}
}
