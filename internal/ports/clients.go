package ports

import (
	"context"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
)

// SentryClient defines the client port for talking to a sentry node's HTTP
// API. Implemented by the sentry client adapter; called by the validator
// worker. Transport failures are translated to the domain taxonomy
// (domain.ErrTimeout, domain.ErrUnavailable) before they reach callers.
type SentryClient interface {
	// ListChannels returns a page of channels the sentry knows about.
	ListChannels(ctx context.Context, q ChannelListQuery) (ChannelPage, error)

	// GetChannel returns a single channel by identifier.
	// Returns domain.ErrNotFound if the sentry does not know the channel.
	GetChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error)

	// ListEvents returns a channel's events with sequence >= fromSeq.
	// Returns domain.ErrNotFound if the sentry does not know the channel.
	ListEvents(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error)

	// SubmitEvent propagates a spend event to the sentry.
	// The sentry applies the same append rules as local storage, so the
	// full EventRepository.Append failure taxonomy can come back.
	SubmitEvent(ctx context.Context, e event.SpendEvent) error

	// CloseChannel asks the sentry to close a channel.
	CloseChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error)
}
