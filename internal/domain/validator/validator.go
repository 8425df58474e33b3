// Package validator defines the Validator entity: a network participant that
// approves and signs channel state transitions. Channels reference
// validators by address only, so validator records have an independent
// lifecycle.
package validator

import (
	"encoding/json"
	"net/url"

	"github.com/chanstack/chanstack/internal/domain"
)

// Validator describes a validator node: its on-chain address, the sentry URL
// it is reachable at, and the fee it charges per approved state transition.
type Validator struct {
	ID  domain.Address
	URL string
	Fee domain.Amount
}

// New creates a validated Validator.
func New(id domain.Address, rawURL string, fee domain.Amount) (Validator, error) {
	v := Validator{ID: id, URL: rawURL, Fee: fee}
	if err := v.Validate(); err != nil {
		return Validator{}, err
	}
	return v, nil
}

// Validate checks business rules for the Validator entity.
// Returns a *domain.ValidationError with per-field details, or nil.
func (v Validator) Validate() error {
	fields := make(map[string]string)

	if v.ID.IsZero() {
		fields["id"] = domain.MsgRequired
	}
	if v.URL == "" {
		fields["url"] = domain.MsgRequired
	} else if u, err := url.Parse(v.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		fields["url"] = "must be an absolute http(s) URL"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Equal reports structural equality of two validators.
func (v Validator) Equal(other Validator) bool {
	return v.ID == other.ID && v.URL == other.URL && v.Fee.Equal(other.Fee)
}

// wireValidator is the canonical JSON shape.
type wireValidator struct {
	ID  domain.Address `json:"id"`
	URL string         `json:"url"`
	Fee domain.Amount  `json:"fee"`
}

// MarshalJSON encodes the canonical wire form.
func (v Validator) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValidator(v))
}

// UnmarshalJSON decodes and re-validates the canonical wire form. All fields
// are required; an absent or null field is a decode failure, never coerced
// to a zero value.
func (v *Validator) UnmarshalJSON(data []byte) error {
	var w struct {
		ID  *domain.Address `json:"id"`
		URL *string         `json:"url"`
		Fee *domain.Amount  `json:"fee"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return &domain.MalformedDataError{Detail: "validator: " + err.Error()}
	}
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"id", w.ID != nil},
		{"url", w.URL != nil},
		{"fee", w.Fee != nil},
	} {
		if !f.present {
			return &domain.MalformedDataError{Detail: "validator: missing required field " + f.name}
		}
	}

	decoded := Validator{ID: *w.ID, URL: *w.URL, Fee: *w.Fee}
	if err := decoded.Validate(); err != nil {
		return &domain.MalformedDataError{Detail: "validator: " + err.Error()}
	}
	*v = decoded
	return nil
}
