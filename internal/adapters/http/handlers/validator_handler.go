package handlers

import (
	"net/http"

	"github.com/chanstack/chanstack/internal/adapters/http/dto"
	"github.com/chanstack/chanstack/internal/ports"
)

// ValidatorHandler handles HTTP requests for validator registration and
// lookup.
type ValidatorHandler struct {
	svc ports.ChannelService
}

// NewValidatorHandler creates a new ValidatorHandler with the given service
// port.
func NewValidatorHandler(svc ports.ChannelService) *ValidatorHandler {
	return &ValidatorHandler{svc: svc}
}

// RegisterValidator handles POST /validators.
func (h *ValidatorHandler) RegisterValidator(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterValidatorRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	v, err := req.ToDomain()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.RegisterValidator(r.Context(), v); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// GetValidator handles GET /validators/{address}.
func (h *ValidatorHandler) GetValidator(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r, "address")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	v, err := h.svc.GetValidator(r.Context(), addr)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// ListValidators handles GET /validators.
func (h *ValidatorHandler) ListValidators(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.ListValidators(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToValidatorListResponse(vs))
}
