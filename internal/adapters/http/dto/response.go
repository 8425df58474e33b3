// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter
// layer. The entities carry their own canonical JSON codecs, so single-item
// responses are the entities themselves; this package adds the list
// envelopes.
package dto

import (
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
	"github.com/chanstack/chanstack/internal/ports"
)

// ChannelListResponse represents one page of a channel listing.
type ChannelListResponse struct {
	Channels   []channel.Channel `json:"channels"`
	TotalPages uint64            `json:"totalPages"`
}

// ToChannelListResponse converts a repository page to an HTTP response DTO.
func ToChannelListResponse(page ports.ChannelPage) ChannelListResponse {
	channels := page.Channels
	if channels == nil {
		channels = []channel.Channel{}
	}
	return ChannelListResponse{
		Channels:   channels,
		TotalPages: page.TotalPages,
	}
}

// ValidatorListResponse represents a list of validators in HTTP responses.
type ValidatorListResponse struct {
	Validators []validator.Validator `json:"validators"`
	Count      int                   `json:"count"`
}

// ToValidatorListResponse converts domain validators to an HTTP list
// response DTO.
func ToValidatorListResponse(vs []validator.Validator) ValidatorListResponse {
	if vs == nil {
		vs = []validator.Validator{}
	}
	return ValidatorListResponse{Validators: vs, Count: len(vs)}
}

// EventListResponse represents a channel's spend events in HTTP responses.
type EventListResponse struct {
	Events []event.SpendEvent `json:"events"`
	Count  int                `json:"count"`
}

// ToEventListResponse converts domain events to an HTTP list response DTO.
func ToEventListResponse(events []event.SpendEvent) EventListResponse {
	if events == nil {
		events = []event.SpendEvent{}
	}
	return EventListResponse{Events: events, Count: len(events)}
}
