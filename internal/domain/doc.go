// Package domain is the shared domain layer of the validator/sentry stack.
// It defines the value objects (Address, ChannelID, Amount, Timestamp), the
// closed error taxonomy, and the canonical JSON wire encoding that both
// processes must agree on. Entity aggregates live in sub-packages
// (domain/channel, domain/validator, domain/event).
//
// Nothing in this package performs I/O or holds shared mutable state; every
// operation is a pure function over immutable inputs and is safe for
// concurrent use.
package domain
