package dto

import (
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
)

// CreateChannelRequest represents the JSON body for opening a channel.
// The domain types decode themselves, so a malformed address, amount, or
// timestamp surfaces as domain.ErrMalformedData before validation runs.
type CreateChannelRequest struct {
	ID         domain.ChannelID  `json:"id"`
	Leader     domain.Address    `json:"leader"`
	Follower   domain.Address    `json:"follower"`
	Deposit    domain.Amount     `json:"deposit"`
	ValidUntil *domain.Timestamp `json:"validUntil,omitempty"`
}

// ToDomain builds the Active channel this request describes. createdAt is
// server-assigned. Cross-field invariants are checked by the constructor.
func (r *CreateChannelRequest) ToDomain(createdAt domain.Timestamp) (channel.Channel, error) {
	c, err := channel.New(r.ID, r.Leader, r.Follower, r.Deposit, createdAt)
	if err != nil {
		return channel.Channel{}, err
	}
	if r.ValidUntil != nil {
		until := *r.ValidUntil
		c.ValidUntil = &until
		if err := c.Validate(); err != nil {
			return channel.Channel{}, err
		}
	}
	return c, nil
}

// RegisterValidatorRequest represents the JSON body for registering a
// validator.
type RegisterValidatorRequest struct {
	ID  domain.Address `json:"id"`
	URL string         `json:"url"`
	Fee domain.Amount  `json:"fee"`
}

// ToDomain builds the validator this request describes.
func (r *RegisterValidatorRequest) ToDomain() (validator.Validator, error) {
	return validator.New(r.ID, r.URL, r.Fee)
}

// AppendEventRequest represents the JSON body for appending a spend event.
// The channel identifier comes from the URL path, not the body. A missing
// timestamp is server-assigned.
type AppendEventRequest struct {
	Sequence  uint64            `json:"sequence"`
	Amount    domain.Amount     `json:"amount"`
	Timestamp *domain.Timestamp `json:"timestamp,omitempty"`
	Signer    domain.Address    `json:"signer"`
}

// ToDomain builds the spend event this request describes against the given
// channel.
func (r *AppendEventRequest) ToDomain(channelID domain.ChannelID, now domain.Timestamp) (event.SpendEvent, error) {
	ts := now
	if r.Timestamp != nil {
		ts = *r.Timestamp
	}
	return event.New(channelID, r.Sequence, r.Amount, ts, r.Signer)
}
