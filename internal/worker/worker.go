// Package worker implements the validator worker: a tick loop that polls a
// sentry for the channels this validator participates in, keeps a verified
// event cursor per channel, propagates approval heartbeats, and closes
// channels whose validity window has passed.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/platform/config"
	"github.com/chanstack/chanstack/internal/ports"
)

// Worker polls a sentry on a fixed interval and reconciles the channels this
// validator participates in. It is not safe for concurrent use; run exactly
// one Run loop per Worker.
type Worker struct {
	client ports.SentryClient
	self   domain.Address
	cfg    config.WorkerConfig
	logger *slog.Logger

	// cursors tracks the highest verified event sequence per channel.
	cursors map[domain.ChannelID]uint64
}

// New creates a Worker that acts as the validator with the given address.
func New(client ports.SentryClient, self domain.Address, cfg config.WorkerConfig, logger *slog.Logger) *Worker {
	return &Worker{
		client:  client,
		self:    self,
		cfg:     cfg,
		logger:  logger,
		cursors: make(map[domain.ChannelID]uint64),
	}
}

// Run ticks immediately and then on every TickInterval until ctx is
// cancelled. Tick failures are logged and do not stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.TickInterval)
	defer ticker.Stop()

	for {
		w.tickWithTimeout(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) tickWithTimeout(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, w.cfg.TickTimeout)
	defer cancel()

	if err := w.Tick(tickCtx); err != nil {
		w.logger.ErrorContext(ctx, "tick failed",
			slog.String("operation", "worker.Tick"),
			slog.Any("error", err),
		)
	}
}

// Tick performs one reconciliation pass: page through this validator's
// channels (up to MaxChannels) and process each one. Per-channel failures
// are logged and skipped so one bad channel cannot starve the rest; only a
// listing failure aborts the tick.
func (w *Worker) Tick(ctx context.Context) error {
	now := domain.Now()
	processed := 0

	for page := uint64(1); ; page++ {
		result, err := w.client.ListChannels(ctx, ports.ChannelListQuery{
			Validator: &w.self,
			Page:      page,
		})
		if err != nil {
			return err
		}

		for _, ch := range result.Channels {
			if processed >= w.cfg.MaxChannels {
				w.logger.WarnContext(ctx, "channel cap reached, deferring remainder",
					slog.Int("max_channels", w.cfg.MaxChannels),
				)
				return nil
			}
			w.processChannel(ctx, ch, now)
			processed++
		}

		if page >= result.TotalPages {
			return nil
		}
	}
}

// processChannel reconciles a single channel: drop closed ones, close
// expired ones, and otherwise sync the event history and propagate a
// heartbeat.
func (w *Worker) processChannel(ctx context.Context, ch channel.Channel, now domain.Timestamp) {
	if ch.IsClosed() {
		delete(w.cursors, ch.ID)
		return
	}

	if isExpired(ch, now) {
		w.closeExpired(ctx, ch)
		return
	}

	lastSeq, err := w.syncEvents(ctx, ch.ID)
	if err != nil {
		w.logger.ErrorContext(ctx, "event sync failed",
			slog.String("operation", "worker.syncEvents"),
			slog.String("channel_id", ch.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	w.propagateHeartbeat(ctx, ch.ID, lastSeq)
}

// isExpired reports whether the channel's validity window has passed.
// Channels without a ValidUntil never expire.
func isExpired(ch channel.Channel, now domain.Timestamp) bool {
	return ch.ValidUntil != nil && now.After(*ch.ValidUntil)
}

// closeExpired asks the sentry to close a channel past its validity window.
// A conflict means another validator beat us to a transition; that is fine.
func (w *Worker) closeExpired(ctx context.Context, ch channel.Channel) {
	closed, err := w.client.CloseChannel(ctx, ch.ID)
	switch {
	case err == nil:
		delete(w.cursors, ch.ID)
		w.logger.InfoContext(ctx, "closed expired channel",
			slog.String("channel_id", closed.ID.String()),
		)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrChannelClosed):
		delete(w.cursors, ch.ID)
	default:
		w.logger.ErrorContext(ctx, "closing expired channel failed",
			slog.String("operation", "worker.closeExpired"),
			slog.String("channel_id", ch.ID.String()),
			slog.Any("error", err),
		)
	}
}

// syncEvents fetches events past the verified cursor, checks the history is
// gap-free, and advances the cursor. Returns the highest verified sequence.
func (w *Worker) syncEvents(ctx context.Context, id domain.ChannelID) (uint64, error) {
	cursor := w.cursors[id]

	events, err := w.client.ListEvents(ctx, id, cursor+1)
	if err != nil {
		return 0, err
	}

	for _, e := range events {
		if e.Sequence != cursor+1 {
			return 0, &domain.MalformedDataError{
				Detail: "event history has a sequence gap",
			}
		}
		cursor = e.Sequence
	}

	w.cursors[id] = cursor
	return cursor, nil
}

// propagateHeartbeat appends a zero-amount approval event with the next
// sequence number. A sequence conflict means a peer appended first; the next
// tick's sync will pick their event up.
func (w *Worker) propagateHeartbeat(ctx context.Context, id domain.ChannelID, lastSeq uint64) {
	amount, err := domain.NewAmount(0)
	if err != nil {
		w.logger.ErrorContext(ctx, "building heartbeat amount", slog.Any("error", err))
		return
	}

	e, err := event.New(id, lastSeq+1, amount, domain.Now(), w.self)
	if err != nil {
		w.logger.ErrorContext(ctx, "building heartbeat event",
			slog.String("channel_id", id.String()),
			slog.Any("error", err),
		)
		return
	}

	err = w.client.SubmitEvent(ctx, e)
	switch {
	case err == nil:
		w.cursors[id] = e.Sequence
		w.logger.DebugContext(ctx, "heartbeat propagated",
			slog.String("channel_id", id.String()),
			slog.Uint64("sequence", e.Sequence),
		)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSequenceConflict):
		// Lost the race for this sequence number.
	case errors.Is(err, domain.ErrChannelClosed):
		delete(w.cursors, id)
	default:
		w.logger.ErrorContext(ctx, "heartbeat propagation failed",
			slog.String("operation", "worker.propagateHeartbeat"),
			slog.String("channel_id", id.String()),
			slog.Any("error", err),
		)
	}
}
