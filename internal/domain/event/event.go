// Package event defines the SpendEvent record: an immutable,
// sequence-numbered fact appended to a channel's history. Events are
// append-only; once persisted with a given sequence number no operation may
// alter them. Per-channel sequence monotonicity is enforced by the
// repository layer; this package enforces local well-formedness only.
package event

import (
	"encoding/json"

	"github.com/chanstack/chanstack/internal/domain"
)

// SpendEvent records a single signed spend against a channel.
type SpendEvent struct {
	ChannelID domain.ChannelID
	Sequence  uint64
	Amount    domain.Amount
	Timestamp domain.Timestamp
	Signer    domain.Address
}

// New creates a validated SpendEvent. Sequence numbers start at 1.
func New(channelID domain.ChannelID, sequence uint64, amount domain.Amount, ts domain.Timestamp, signer domain.Address) (SpendEvent, error) {
	e := SpendEvent{
		ChannelID: channelID,
		Sequence:  sequence,
		Amount:    amount,
		Timestamp: ts,
		Signer:    signer,
	}
	if err := e.Validate(); err != nil {
		return SpendEvent{}, err
	}
	return e, nil
}

// Validate checks local well-formedness: non-zero channel reference and
// signer, and a positive sequence number.
// Returns a *domain.ValidationError with per-field details, or nil.
func (e SpendEvent) Validate() error {
	fields := make(map[string]string)

	if e.ChannelID.IsZero() {
		fields["channelId"] = domain.MsgRequired
	}
	if e.Sequence == 0 {
		fields["sequence"] = "must be positive"
	}
	if e.Signer.IsZero() {
		fields["signer"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Equal reports structural equality of two events.
func (e SpendEvent) Equal(other SpendEvent) bool {
	return e.ChannelID == other.ChannelID &&
		e.Sequence == other.Sequence &&
		e.Amount.Equal(other.Amount) &&
		e.Timestamp.Equal(other.Timestamp) &&
		e.Signer == other.Signer
}

// wireSpendEvent is the canonical JSON shape.
type wireSpendEvent struct {
	ChannelID domain.ChannelID `json:"channelId"`
	Sequence  uint64           `json:"sequence"`
	Amount    domain.Amount    `json:"amount"`
	Timestamp domain.Timestamp `json:"timestamp"`
	Signer    domain.Address   `json:"signer"`
}

// MarshalJSON encodes the canonical wire form.
func (e SpendEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSpendEvent(e))
}

// UnmarshalJSON decodes and re-validates the canonical wire form. All fields
// are required; an absent or null field is a decode failure, never coerced
// to a zero value.
func (e *SpendEvent) UnmarshalJSON(data []byte) error {
	var w struct {
		ChannelID *domain.ChannelID `json:"channelId"`
		Sequence  *uint64           `json:"sequence"`
		Amount    *domain.Amount    `json:"amount"`
		Timestamp *domain.Timestamp `json:"timestamp"`
		Signer    *domain.Address   `json:"signer"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return &domain.MalformedDataError{Detail: "spend event: " + err.Error()}
	}
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"channelId", w.ChannelID != nil},
		{"sequence", w.Sequence != nil},
		{"amount", w.Amount != nil},
		{"timestamp", w.Timestamp != nil},
		{"signer", w.Signer != nil},
	} {
		if !f.present {
			return &domain.MalformedDataError{Detail: "spend event: missing required field " + f.name}
		}
	}

	decoded := SpendEvent{
		ChannelID: *w.ChannelID,
		Sequence:  *w.Sequence,
		Amount:    *w.Amount,
		Timestamp: *w.Timestamp,
		Signer:    *w.Signer,
	}
	if err := decoded.Validate(); err != nil {
		return &domain.MalformedDataError{Detail: "spend event: " + err.Error()}
	}
	*e = decoded
	return nil
}
