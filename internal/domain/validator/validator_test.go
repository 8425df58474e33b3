package validator_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/validator"
	"github.com/chanstack/chanstack/internal/fixtures"
)

func TestNew(t *testing.T) {
	t.Parallel()

	v, err := validator.New(fixtures.Leader(), "https://validator.example.com", fixtures.Amount(100))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if v.ID != fixtures.Leader() {
		t.Errorf("ID = %v, want leader address", v.ID)
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		id        domain.Address
		url       string
		wantField string
	}{
		{name: "zero id", id: domain.Address{}, url: "http://localhost:8005", wantField: "id"},
		{name: "empty url", id: fixtures.Leader(), url: "", wantField: "url"},
		{name: "relative url", id: fixtures.Leader(), url: "/sentry", wantField: "url"},
		{name: "non-http scheme", id: fixtures.Leader(), url: "ftp://host", wantField: "url"},
		{name: "missing host", id: fixtures.Leader(), url: "http://", wantField: "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := validator.New(tt.id, tt.url, fixtures.Amount(100))
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("New() error = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields = %v, want entry for %q", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestValidator_ZeroFeeAllowed(t *testing.T) {
	t.Parallel()

	if _, err := validator.New(fixtures.Leader(), "http://localhost:8005", fixtures.Amount(0)); err != nil {
		t.Errorf("New(zero fee) error = %v, want nil", err)
	}
}

func TestValidator_JSONCodec(t *testing.T) {
	t.Parallel()

	v := fixtures.Validator(fixtures.Follower())

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded validator.Validator
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Equal(v) {
		t.Errorf("round-trip changed the validator: %+v != %+v", decoded, v)
	}
}

func TestValidator_UnmarshalMissingRequiredField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wire string
	}{
		{name: "missing id", wire: `{"url":"http://localhost:8005","fee":"0"}`},
		{name: "missing url", wire: `{"id":"` + fixtures.LeaderHex + `","fee":"0"}`},
		{name: "missing fee", wire: `{"id":"` + fixtures.LeaderHex + `","url":"http://localhost:8005"}`},
		{name: "null fee", wire: `{"id":"` + fixtures.LeaderHex + `","url":"http://localhost:8005","fee":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var decoded validator.Validator
			err := json.Unmarshal([]byte(tt.wire), &decoded)
			if !errors.Is(err, domain.ErrMalformedData) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrMalformedData", tt.wire, err)
			}
		})
	}
}

func TestValidator_UnmarshalRejectsInvalid(t *testing.T) {
	t.Parallel()

	wire := `{"id":"` + fixtures.LeaderHex + `","url":"not a url","fee":"0"}`

	var decoded validator.Validator
	if err := json.Unmarshal([]byte(wire), &decoded); !errors.Is(err, domain.ErrMalformedData) {
		t.Errorf("Unmarshal(bad url) error = %v, want ErrMalformedData", err)
	}
}
