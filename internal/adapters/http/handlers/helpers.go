package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chanstack/chanstack/internal/adapters/http/dto"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/ports"
)

// parseChannelID extracts a channel identifier path parameter from the chi
// URL params.
func parseChannelID(r *http.Request) (domain.ChannelID, error) {
	id, err := domain.ParseChannelID(chi.URLParam(r, "id"))
	if err != nil {
		return domain.ChannelID{}, &domain.ValidationError{
			Fields: map[string]string{"id": "must be a 0x-prefixed 32-byte hex identifier"},
		}
	}
	return id, nil
}

// parseAddress extracts an address path parameter from the chi URL params.
func parseAddress(r *http.Request, param string) (domain.Address, error) {
	addr, err := domain.ParseAddress(chi.URLParam(r, param))
	if err != nil {
		return domain.Address{}, &domain.ValidationError{
			Fields: map[string]string{param: "must be a 0x-prefixed 20-byte hex address"},
		}
	}
	return addr, nil
}

// parseChannelListQuery builds a repository list query from the URL query
// string. Absent parameters keep their zero values; the repository applies
// the defaults.
func parseChannelListQuery(r *http.Request) (ports.ChannelListQuery, error) {
	var q ports.ChannelListQuery
	fields := make(map[string]string)
	values := r.URL.Query()

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || page == 0 {
			fields["page"] = "must be a positive integer"
		} else {
			q.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || limit == 0 {
			fields["limit"] = "must be a positive integer"
		} else {
			q.Limit = uint32(limit)
		}
	}
	if raw := values.Get("validator"); raw != "" {
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			fields["validator"] = "must be a 0x-prefixed 20-byte hex address"
		} else {
			q.Validator = &addr
		}
	}
	if raw := values.Get("validUntilGe"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["validUntilGe"] = "must be integer epoch milliseconds"
		} else if ts, tsErr := domain.TimestampFromMillis(ms); tsErr != nil {
			fields["validUntilGe"] = "must not precede the Unix epoch"
		} else {
			q.ValidUntilGE = &ts
		}
	}

	if len(fields) > 0 {
		return ports.ChannelListQuery{}, &domain.ValidationError{Fields: fields}
	}
	return q, nil
}

// parseFromSeq reads the optional fromSeq query parameter, defaulting to 0.
func parseFromSeq(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("fromSeq")
	if raw == "" {
		return 0, nil
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"fromSeq": "must be a non-negative integer"},
		}
	}
	return seq, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. Codec errors
// from the domain types pass through unchanged so the taxonomy mapping
// applies; anything else becomes a generic body validation error. On failure
// it writes an error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !errors.Is(err, domain.ErrMalformedData) {
			err = &domain.ValidationError{
				Fields: map[string]string{"body": "invalid JSON"},
			}
		}
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
