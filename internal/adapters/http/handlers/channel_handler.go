// Package handlers provides HTTP request handlers for the sentry's API
// endpoints.
package handlers

import (
	"context"
	"net/http"

	"github.com/chanstack/chanstack/internal/adapters/http/dto"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/ports"
)

// ChannelHandler handles HTTP requests for channel lifecycle and spend
// event operations.
type ChannelHandler struct {
	svc ports.ChannelService
}

// NewChannelHandler creates a new ChannelHandler with the given service port.
func NewChannelHandler(svc ports.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// CreateChannel handles POST /channel.
func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChannelRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	c, err := req.ToDomain(domain.Now())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	created, err := h.svc.OpenChannel(r.Context(), c)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListChannels handles GET /channel/list.
func (h *ChannelHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	q, err := parseChannelListQuery(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	page, err := h.svc.ListChannels(r.Context(), q)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToChannelListResponse(page))
}

// GetChannel handles GET /channel/{id}.
func (h *ChannelHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	id, err := parseChannelID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	c, err := h.svc.GetChannel(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// ListEvents handles GET /channel/{id}/events.
func (h *ChannelHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseChannelID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	fromSeq, err := parseFromSeq(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	events, err := h.svc.ListEvents(r.Context(), id, fromSeq)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// AppendEvent handles POST /channel/{id}/events.
func (h *ChannelHandler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseChannelID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AppendEventRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	e, err := req.ToDomain(id, domain.Now())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.RecordSpend(r.Context(), e); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

// BeginWithdraw handles POST /channel/{id}/withdraw.
func (h *ChannelHandler) BeginWithdraw(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.svc.BeginWithdraw)
}

// CompleteWithdraw handles POST /channel/{id}/withdraw/complete.
func (h *ChannelHandler) CompleteWithdraw(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.svc.CompleteWithdraw)
}

// CloseChannel handles POST /channel/{id}/close.
func (h *ChannelHandler) CloseChannel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.svc.CloseChannel)
}

func (h *ChannelHandler) applyTransition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id domain.ChannelID) (channel.Channel, error),
) {
	id, err := parseChannelID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := op(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
