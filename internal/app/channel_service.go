// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and storage through port interfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
	"github.com/chanstack/chanstack/internal/ports"
)

// Compile-time check that ChannelService implements ports.ChannelService.
var _ ports.ChannelService = (*ChannelService)(nil)

// ChannelService implements ports.ChannelService by orchestrating calls to
// the validator, channel, and event repositories. It handles cross-entity
// checks and structured logging; the entity transitions themselves live in
// the domain packages.
type ChannelService struct {
	validators ports.ValidatorRepository
	channels   ports.ChannelRepository
	events     ports.EventRepository
	logger     *slog.Logger
}

// NewChannelService creates a ChannelService over the given repositories.
func NewChannelService(
	validators ports.ValidatorRepository,
	channels ports.ChannelRepository,
	events ports.EventRepository,
	logger *slog.Logger,
) *ChannelService {
	return &ChannelService{
		validators: validators,
		channels:   channels,
		events:     events,
		logger:     logger,
	}
}

// RegisterValidator validates and stores a validator record.
func (s *ChannelService) RegisterValidator(ctx context.Context, v validator.Validator) error {
	s.logger.InfoContext(ctx, "registering validator", slog.String("id", v.ID.String()))

	if err := v.Validate(); err != nil {
		return err
	}

	if err := s.validators.Create(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "failed to register validator",
			slog.String("operation", "RegisterValidator"),
			slog.String("id", v.ID.String()),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// GetValidator returns a validator by address.
func (s *ChannelService) GetValidator(ctx context.Context, id domain.Address) (validator.Validator, error) {
	v, err := s.validators.Get(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch validator",
			slog.String("operation", "GetValidator"),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		return validator.Validator{}, err
	}
	return v, nil
}

// ListValidators returns all registered validators ordered by address.
func (s *ChannelService) ListValidators(ctx context.Context) ([]validator.Validator, error) {
	vs, err := s.validators.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list validators",
			slog.String("operation", "ListValidators"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return vs, nil
}

// OpenChannel validates and creates an Active channel. Both parties must be
// registered validators.
func (s *ChannelService) OpenChannel(ctx context.Context, c channel.Channel) (channel.Channel, error) {
	s.logger.InfoContext(ctx, "opening channel",
		slog.String("id", c.ID.String()),
		slog.String("leader", c.Leader.String()),
		slog.String("follower", c.Follower.String()),
	)

	if err := c.Validate(); err != nil {
		return channel.Channel{}, err
	}

	fields := make(map[string]string)
	if _, err := s.validators.Get(ctx, c.Leader); err != nil {
		if !isNotFound(err) {
			return channel.Channel{}, fmt.Errorf("verifying leader: %w", err)
		}
		fields["leader"] = "is not a registered validator"
	}
	if _, err := s.validators.Get(ctx, c.Follower); err != nil {
		if !isNotFound(err) {
			return channel.Channel{}, fmt.Errorf("verifying follower: %w", err)
		}
		fields["follower"] = "is not a registered validator"
	}
	if len(fields) > 0 {
		return channel.Channel{}, &domain.ValidationError{Fields: fields}
	}

	if err := s.channels.Create(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to open channel",
			slog.String("operation", "OpenChannel"),
			slog.String("id", c.ID.String()),
			slog.Any("error", err),
		)
		return channel.Channel{}, err
	}

	return c, nil
}

// GetChannel returns a channel by identifier.
func (s *ChannelService) GetChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	c, err := s.channels.Get(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch channel",
			slog.String("operation", "GetChannel"),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		return channel.Channel{}, err
	}
	return c, nil
}

// ListChannels returns a page of channels matching the query.
func (s *ChannelService) ListChannels(ctx context.Context, q ports.ChannelListQuery) (ports.ChannelPage, error) {
	page, err := s.channels.List(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list channels",
			slog.String("operation", "ListChannels"),
			slog.Any("error", err),
		)
		return ports.ChannelPage{}, err
	}
	return page, nil
}

// RecordSpend validates and appends a spend event; the event repository
// applies the balance effect atomically.
func (s *ChannelService) RecordSpend(ctx context.Context, e event.SpendEvent) error {
	s.logger.InfoContext(ctx, "recording spend",
		slog.String("channel_id", e.ChannelID.String()),
		slog.Uint64("sequence", e.Sequence),
		slog.String("amount", e.Amount.String()),
	)

	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.events.Append(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to record spend",
			slog.String("operation", "RecordSpend"),
			slog.String("channel_id", e.ChannelID.String()),
			slog.Uint64("sequence", e.Sequence),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// ListEvents returns a channel's events with sequence >= fromSeq.
func (s *ChannelService) ListEvents(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
	events, err := s.events.List(ctx, id, fromSeq)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list events",
			slog.String("operation", "ListEvents"),
			slog.String("channel_id", id.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return events, nil
}

// BeginWithdraw transitions a channel Active->Withdrawing.
func (s *ChannelService) BeginWithdraw(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	s.logger.InfoContext(ctx, "beginning withdraw", slog.String("id", id.String()))
	return s.applyTransition(ctx, "BeginWithdraw", id, channel.Channel.BeginWithdraw)
}

// CompleteWithdraw transitions a channel Withdrawing->Closed.
func (s *ChannelService) CompleteWithdraw(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	s.logger.InfoContext(ctx, "completing withdraw", slog.String("id", id.String()))
	return s.applyTransition(ctx, "CompleteWithdraw", id, channel.Channel.CompleteWithdraw)
}

// CloseChannel administratively transitions a channel Active->Closed.
func (s *ChannelService) CloseChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	s.logger.InfoContext(ctx, "closing channel", slog.String("id", id.String()))
	return s.applyTransition(ctx, "CloseChannel", id, channel.Channel.Close)
}

// applyTransition runs a pure channel transition through the repository's
// atomic update.
func (s *ChannelService) applyTransition(ctx context.Context, op string, id domain.ChannelID, mutate ports.ChannelMutation) (channel.Channel, error) {
	updated, err := s.channels.Update(ctx, id, mutate)
	if err != nil {
		s.logger.ErrorContext(ctx, "channel transition failed",
			slog.String("operation", op),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		return channel.Channel{}, err
	}
	return updated, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
