// Package fixtures provides shared test data: a random-pick helper and
// constructors for well-formed validators, channels, and spend events. The
// entities use fixed addresses so that tests across packages agree on who
// the leader and follower are.
package fixtures

import (
	"fmt"
	"math/rand/v2"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
)

// TakeOne returns a uniformly random element of list. It panics on an empty
// list; passing one is a programming error in the test, not a condition to
// recover from.
func TakeOne[T any](list []T) T {
	if len(list) == 0 {
		panic("fixtures: TakeOne got empty list")
	}
	return list[rand.IntN(len(list))]
}

// Fixed identities used across tests. Lowercase hex parses without a
// checksum check, so these stay stable even if the checksum rules evolve.
const (
	LeaderHex   = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	FollowerHex = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	SignerHex   = "0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb"

	ChannelHex = "0x061d5e2a67d0a9a10f1c732bca12a676d83f79663a396f7d87b3e30b9b411088"
)

// Leader returns the fixed leader address.
func Leader() domain.Address { return mustAddress(LeaderHex) }

// Follower returns the fixed follower address.
func Follower() domain.Address { return mustAddress(FollowerHex) }

// Signer returns the fixed spend-event signer address.
func Signer() domain.Address { return mustAddress(SignerHex) }

// ChannelID returns the fixed channel identifier.
func ChannelID() domain.ChannelID {
	id, err := domain.ParseChannelID(ChannelHex)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return id
}

// Validator returns a well-formed validator for the given address.
func Validator(id domain.Address) validator.Validator {
	v, err := validator.New(id, "http://localhost:8005", Amount(100))
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return v
}

// Channel returns a well-formed Active channel between the fixed leader and
// follower with the given deposit.
func Channel(deposit domain.Amount) channel.Channel {
	c, err := channel.New(ChannelID(), Leader(), Follower(), deposit, CreatedAt())
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return c
}

// SpendEvent returns a well-formed spend event against the fixed channel.
func SpendEvent(sequence uint64, amount domain.Amount) event.SpendEvent {
	e, err := event.New(ChannelID(), sequence, amount, CreatedAt(), Signer())
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return e
}

// Amount builds a domain.Amount from a small constant.
func Amount(v int64) domain.Amount {
	a, err := domain.NewAmount(v)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return a
}

// CreatedAt returns the fixed instant used for channel and event timestamps.
func CreatedAt() domain.Timestamp {
	ts, err := domain.TimestampFromMillis(1_541_101_000_000)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return ts
}

func mustAddress(hex string) domain.Address {
	a, err := domain.ParseAddress(hex)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return a
}
