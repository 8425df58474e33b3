package ports

import (
	"context"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
)

// Every repository implementation must provide these guarantees:
//
//   - Atomicity: Update and Append either fully apply or have no effect.
//     No partial invariant violation is ever observable.
//   - Idempotent create: re-creating an entity with an identical identifier
//     and identical content (structural equality) is a no-op success;
//     with differing content it fails with domain.ErrAlreadyExists.
//   - Ordering: for a single channel, appends that succeed are observed by
//     subsequent reads in sequence-number order, regardless of concurrent
//     submission order.
//   - Isolation: concurrent Update/Append on the same entity never
//     interleave partially. Detected races surface as domain.ErrConflict or
//     domain.ErrSequenceConflict, never as silent corruption.
//   - Failure taxonomy: a backend that cannot complete an operation reports
//     domain.ErrTimeout or domain.ErrUnavailable. Retrying is the caller's
//     concern.
//
// All methods respect context cancellation and deadlines.

// ValidatorRepository stores validator records. Channels reference
// validators by address only, so deleting or replacing a validator record
// is independent of any channel's lifetime.
type ValidatorRepository interface {
	// Get returns the validator with the given address.
	// Returns domain.ErrNotFound if no such record exists.
	Get(ctx context.Context, id domain.Address) (validator.Validator, error)

	// Create stores a new validator record, subject to the idempotent
	// create rule above.
	Create(ctx context.Context, v validator.Validator) error

	// List returns all validator records ordered by address.
	List(ctx context.Context) ([]validator.Validator, error)
}

// ChannelMutation transforms a channel into its next state. It must be a
// pure function: implementations of Update may call it at most once, under
// whatever isolation the backend provides, and discard its result on error.
type ChannelMutation func(channel.Channel) (channel.Channel, error)

// ChannelListQuery holds optional filter criteria for listing channels.
// Zero-value fields mean "no filter" for that dimension. Page numbering
// starts at 1.
type ChannelListQuery struct {
	// Validator filters to channels led or followed by the given address.
	Validator *domain.Address

	// ValidUntilGE filters out channels that expire before the instant.
	ValidUntilGE *domain.Timestamp

	Page  uint64
	Limit uint32
}

// ChannelPage is one page of a channel listing.
type ChannelPage struct {
	Channels   []channel.Channel
	TotalPages uint64
}

// ChannelRepository stores channel aggregates.
type ChannelRepository interface {
	// Get returns the channel with the given identifier.
	// Returns domain.ErrNotFound if no such channel exists.
	Get(ctx context.Context, id domain.ChannelID) (channel.Channel, error)

	// Create stores a new channel, subject to the idempotent create rule.
	// The channel must satisfy its own Validate; backends reject invalid
	// aggregates with a *domain.ValidationError rather than storing them.
	Create(ctx context.Context, c channel.Channel) error

	// Update atomically applies mutate to the current state of the
	// channel and persists the result. The mutation runs serialized
	// against other writers of the same channel (one winner); a detected
	// race surfaces as domain.ErrConflict. Errors returned by mutate are
	// propagated unchanged and leave the stored state untouched.
	// Returns domain.ErrNotFound if no such channel exists.
	Update(ctx context.Context, id domain.ChannelID, mutate ChannelMutation) (channel.Channel, error)

	// List returns a page of channels matching the query, ordered by
	// identifier bytes.
	List(ctx context.Context, q ChannelListQuery) (ChannelPage, error)
}

// EventRepository stores the append-only per-channel spend history.
type EventRepository interface {
	// Append records a spend event and atomically applies its amount to
	// the channel's spent balance. The committed history is gap-free by
	// construction: an append succeeds only when e.Sequence is exactly one
	// greater than the channel's last committed sequence (the first event
	// has sequence 1), and a rejected append reserves nothing; callers
	// retry with a refreshed sequence number.
	//
	// Returns domain.ErrNotFound if the channel does not exist,
	// domain.ErrChannelClosed if it is closed, domain.ErrSequenceConflict
	// on a sequence mismatch, domain.ErrInvalidTransition if the channel
	// is not accepting spends, and domain.ErrInsufficientDeposit when the
	// amount exceeds the remaining deposit. On any error no state changes.
	Append(ctx context.Context, e event.SpendEvent) error

	// List returns the events of a channel with sequence >= fromSeq,
	// ordered by sequence. Returns domain.ErrNotFound if the channel does
	// not exist.
	List(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error)

	// LastSequence returns the sequence number of the most recent event,
	// or 0 when the channel has no events yet. Returns domain.ErrNotFound
	// if the channel does not exist.
	LastSequence(ctx context.Context, id domain.ChannelID) (uint64, error)
}
