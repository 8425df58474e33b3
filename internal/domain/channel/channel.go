// Package channel defines the Channel aggregate: a ledger-like record of a
// deposit and the cumulative spend against it between a leader and a
// follower validator. All state transitions are pure: methods return a new
// Channel value or a domain error and never leave the receiver invalid.
package channel

import (
	"encoding/json"
	"fmt"

	"github.com/chanstack/chanstack/internal/domain"
)

// Channel tracks a deposit and cumulative spend between two validators.
// Validators are referenced by address only (weak reference); a Channel
// never owns the Validator records it names.
type Channel struct {
	ID         domain.ChannelID
	Leader     domain.Address
	Follower   domain.Address
	Deposit    domain.Amount
	Spent      domain.Amount
	Status     Status
	CreatedAt  domain.Timestamp
	ValidUntil *domain.Timestamp
}

// New creates an Active channel with zero spend.
// Returns a *domain.ValidationError if the cross-field invariants fail.
func New(id domain.ChannelID, leader, follower domain.Address, deposit domain.Amount, createdAt domain.Timestamp) (Channel, error) {
	c := Channel{
		ID:        id,
		Leader:    leader,
		Follower:  follower,
		Deposit:   deposit,
		Status:    StatusActive,
		CreatedAt: createdAt,
	}
	if err := c.Validate(); err != nil {
		return Channel{}, err
	}
	return c, nil
}

// Validate checks the cross-field invariants: non-zero identifiers, distinct
// leader and follower, valid status, and spent <= deposit.
// Returns a *domain.ValidationError with per-field details, or nil.
func (c Channel) Validate() error {
	fields := make(map[string]string)

	if c.ID.IsZero() {
		fields["id"] = domain.MsgRequired
	}
	if c.Leader.IsZero() {
		fields["leader"] = domain.MsgRequired
	}
	if c.Follower.IsZero() {
		fields["follower"] = domain.MsgRequired
	}
	if !c.Leader.IsZero() && c.Leader == c.Follower {
		fields["follower"] = "must differ from leader"
	}
	if !c.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", c.Status)
	}
	if c.Spent.Cmp(c.Deposit) > 0 {
		fields["spent"] = "must not exceed deposit"
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(c.CreatedAt) {
		fields["validUntil"] = "must not precede createdAt"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ApplySpend returns a copy of the channel with amount added to its spent
// balance. Fails with domain.ErrInvalidTransition unless the channel is
// Active, and with domain.ErrInsufficientDeposit when the new spent balance
// would exceed the deposit. The receiver is unchanged on failure.
func (c Channel) ApplySpend(amount domain.Amount) (Channel, error) {
	if c.Status != StatusActive {
		return Channel{}, fmt.Errorf("spend on %s channel: %w", c.Status, domain.ErrInvalidTransition)
	}

	spent, err := c.Spent.CheckedAdd(amount)
	if err != nil {
		return Channel{}, err
	}
	if spent.Cmp(c.Deposit) > 0 {
		return Channel{}, domain.ErrInsufficientDeposit
	}

	c.Spent = spent
	return c, nil
}

// Remaining returns the unspent portion of the deposit.
func (c Channel) Remaining() domain.Amount {
	remaining, err := c.Deposit.CheckedSub(c.Spent)
	if err != nil {
		// Unreachable while the spent <= deposit invariant holds.
		return domain.Amount{}
	}
	return remaining
}

// BeginWithdraw transitions Active→Withdrawing.
func (c Channel) BeginWithdraw() (Channel, error) {
	return c.transition(StatusWithdrawing)
}

// CompleteWithdraw transitions Withdrawing→Closed once the deposit has been
// fully withdrawn.
func (c Channel) CompleteWithdraw() (Channel, error) {
	if c.Status != StatusWithdrawing {
		return Channel{}, fmt.Errorf("complete withdraw from %s: %w", c.Status, domain.ErrInvalidTransition)
	}
	return c.transition(StatusClosed)
}

// Close administratively transitions Active→Closed. Withdrawing channels
// must complete their withdrawal instead.
func (c Channel) Close() (Channel, error) {
	if c.Status != StatusActive {
		return Channel{}, fmt.Errorf("close from %s: %w", c.Status, domain.ErrInvalidTransition)
	}
	return c.transition(StatusClosed)
}

// IsClosed reports whether the channel has reached its terminal state.
func (c Channel) IsClosed() bool {
	return c.Status == StatusClosed
}

// transition returns a copy of the channel in the next status, failing with
// domain.ErrInvalidTransition when the state machine forbids the edge.
func (c Channel) transition(next Status) (Channel, error) {
	if !c.Status.CanTransitionTo(next) {
		return Channel{}, fmt.Errorf("%s -> %s: %w", c.Status, next, domain.ErrInvalidTransition)
	}
	c.Status = next
	return c, nil
}

// Equal reports structural equality of two channels, including the optional
// ValidUntil instant.
func (c Channel) Equal(other Channel) bool {
	if c.ID != other.ID || c.Leader != other.Leader || c.Follower != other.Follower {
		return false
	}
	if !c.Deposit.Equal(other.Deposit) || !c.Spent.Equal(other.Spent) {
		return false
	}
	if c.Status != other.Status || !c.CreatedAt.Equal(other.CreatedAt) {
		return false
	}
	switch {
	case c.ValidUntil == nil && other.ValidUntil == nil:
		return true
	case c.ValidUntil == nil || other.ValidUntil == nil:
		return false
	default:
		return c.ValidUntil.Equal(*other.ValidUntil)
	}
}

// wireChannel is the canonical JSON shape. ValidUntil is emitted even when
// absent so that null and 0 stay distinguishable on the wire.
type wireChannel struct {
	ID         domain.ChannelID  `json:"id"`
	Leader     domain.Address    `json:"leader"`
	Follower   domain.Address    `json:"follower"`
	Deposit    domain.Amount     `json:"deposit"`
	Spent      domain.Amount     `json:"spent"`
	Status     Status            `json:"status"`
	CreatedAt  domain.Timestamp  `json:"createdAt"`
	ValidUntil *domain.Timestamp `json:"validUntil"`
}

// MarshalJSON encodes the canonical wire form.
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireChannel(c))
}

// UnmarshalJSON decodes and re-validates the canonical wire form. Every
// field but validUntil is required; an absent or null required field is a
// decode failure, never coerced to a zero value. Any decode or invariant
// failure surfaces as a *domain.MalformedDataError.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var w struct {
		ID         *domain.ChannelID `json:"id"`
		Leader     *domain.Address   `json:"leader"`
		Follower   *domain.Address   `json:"follower"`
		Deposit    *domain.Amount    `json:"deposit"`
		Spent      *domain.Amount    `json:"spent"`
		Status     *Status           `json:"status"`
		CreatedAt  *domain.Timestamp `json:"createdAt"`
		ValidUntil *domain.Timestamp `json:"validUntil"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return &domain.MalformedDataError{Detail: "channel: " + err.Error()}
	}
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"id", w.ID != nil},
		{"leader", w.Leader != nil},
		{"follower", w.Follower != nil},
		{"deposit", w.Deposit != nil},
		{"spent", w.Spent != nil},
		{"status", w.Status != nil},
		{"createdAt", w.CreatedAt != nil},
	} {
		if !f.present {
			return &domain.MalformedDataError{Detail: "channel: missing required field " + f.name}
		}
	}

	decoded := Channel{
		ID:         *w.ID,
		Leader:     *w.Leader,
		Follower:   *w.Follower,
		Deposit:    *w.Deposit,
		Spent:      *w.Spent,
		Status:     *w.Status,
		CreatedAt:  *w.CreatedAt,
		ValidUntil: w.ValidUntil,
	}
	if err := decoded.Validate(); err != nil {
		return &domain.MalformedDataError{Detail: "channel: " + err.Error()}
	}
	*c = decoded
	return nil
}
