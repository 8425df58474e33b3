package ports

import (
	"context"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
)

// ChannelService defines the service port for channel and validator
// operations. Implemented by the application layer; called by inbound
// adapters (HTTP handlers, the validator worker).
type ChannelService interface {
	// RegisterValidator stores a validator record. Registration is
	// idempotent for identical content; a differing record for the same
	// address fails with domain.ErrAlreadyExists.
	RegisterValidator(ctx context.Context, v validator.Validator) error

	// GetValidator returns a validator by address.
	// Returns domain.ErrNotFound if no such validator is registered.
	GetValidator(ctx context.Context, id domain.Address) (validator.Validator, error)

	// ListValidators returns all registered validators ordered by address.
	ListValidators(ctx context.Context) ([]validator.Validator, error)

	// OpenChannel creates an Active channel with zero spend. Both the
	// leader and the follower must already be registered validators;
	// otherwise the call fails with a *domain.ValidationError.
	// Creation is idempotent for identical content.
	OpenChannel(ctx context.Context, c channel.Channel) (channel.Channel, error)

	// GetChannel returns a channel by identifier.
	// Returns domain.ErrNotFound if no such channel exists.
	GetChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error)

	// ListChannels returns a page of channels matching the query, ordered
	// by identifier.
	ListChannels(ctx context.Context, q ChannelListQuery) (ChannelPage, error)

	// RecordSpend appends a spend event to a channel's history and
	// atomically applies its amount to the spent balance. See
	// EventRepository.Append for the failure taxonomy.
	RecordSpend(ctx context.Context, e event.SpendEvent) error

	// ListEvents returns a channel's events with sequence >= fromSeq,
	// ordered by sequence.
	// Returns domain.ErrNotFound if the channel does not exist.
	ListEvents(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error)

	// BeginWithdraw transitions a channel Active->Withdrawing.
	// Returns domain.ErrInvalidTransition when the state machine forbids it.
	BeginWithdraw(ctx context.Context, id domain.ChannelID) (channel.Channel, error)

	// CompleteWithdraw transitions a channel Withdrawing->Closed.
	// Returns domain.ErrInvalidTransition when the state machine forbids it.
	CompleteWithdraw(ctx context.Context, id domain.ChannelID) (channel.Channel, error)

	// CloseChannel administratively transitions a channel Active->Closed.
	// Returns domain.ErrInvalidTransition when the state machine forbids it.
	CloseChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error)
}
