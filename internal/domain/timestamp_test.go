package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chanstack/chanstack/internal/domain"
)

func mustTimestamp(t *testing.T, ms int64) domain.Timestamp {
	t.Helper()
	ts, err := domain.TimestampFromMillis(ms)
	if err != nil {
		t.Fatalf("TimestampFromMillis(%d) error = %v", ms, err)
	}
	return ts
}

func TestTimestampFromMillis_Negative(t *testing.T) {
	t.Parallel()

	_, err := domain.TimestampFromMillis(-1)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("TimestampFromMillis(-1) error = %v, want ErrValidation", err)
	}
}

func TestNewTimestamp_TruncatesToMillis(t *testing.T) {
	t.Parallel()

	instant := time.Date(2018, 11, 1, 18, 56, 40, 123_999_999, time.UTC)
	ts, err := domain.NewTimestamp(instant)
	if err != nil {
		t.Fatalf("NewTimestamp() error = %v", err)
	}

	if got := ts.UnixMilli() % 1000; got != 123 {
		t.Errorf("millisecond component = %d, want 123 (sub-millisecond truncated)", got)
	}
}

func TestTimestamp_Ordering(t *testing.T) {
	t.Parallel()

	early := mustTimestamp(t, 1000)
	late := mustTimestamp(t, 2000)

	if !early.Before(late) || late.Before(early) {
		t.Error("Before is inconsistent")
	}
	if !late.After(early) || early.After(late) {
		t.Error("After is inconsistent")
	}
	if !early.Equal(mustTimestamp(t, 1000)) {
		t.Error("Equal of same instant = false")
	}
	if early.Compare(late) != -1 || late.Compare(early) != 1 || early.Compare(early) != 0 {
		t.Error("Compare does not order totally")
	}
}

func TestTimestamp_JSONCodec(t *testing.T) {
	t.Parallel()

	ts := mustTimestamp(t, 1_541_101_000_000)

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "1541101000000" {
		t.Errorf("Marshal() = %s, want bare integer milliseconds", data)
	}

	var decoded domain.Timestamp
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Equal(ts) {
		t.Errorf("round-trip changed the timestamp: %v != %v", decoded, ts)
	}
}

func TestTimestamp_UnmarshalRejectsNonInteger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"string", `"1541101000000"`},
		{"rfc3339 string", `"2018-11-01T18:56:40Z"`},
		{"fractional", "1541101000000.5"},
		{"negative", "-1"},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ts domain.Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if !errors.Is(err, domain.ErrMalformedData) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrMalformedData", tt.input, err)
			}
		})
	}
}

func TestTimestamp_OptionalDistinguishesNullFromZero(t *testing.T) {
	t.Parallel()

	type payload struct {
		ValidUntil *domain.Timestamp `json:"validUntil"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{"validUntil":null}`), &absent); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if absent.ValidUntil != nil {
		t.Error("null decoded as a present timestamp")
	}

	var epoch payload
	if err := json.Unmarshal([]byte(`{"validUntil":0}`), &epoch); err != nil {
		t.Fatalf("Unmarshal(0) error = %v", err)
	}
	if epoch.ValidUntil == nil {
		t.Fatal("present zero decoded as absent")
	}
	if epoch.ValidUntil.UnixMilli() != 0 {
		t.Errorf("epoch = %d, want 0", epoch.ValidUntil.UnixMilli())
	}

	// And back out: absence encodes as null, zero encodes as 0.
	outAbsent, _ := json.Marshal(absent)
	if string(outAbsent) != `{"validUntil":null}` {
		t.Errorf("marshal absent = %s", outAbsent)
	}
	outEpoch, _ := json.Marshal(epoch)
	if string(outEpoch) != `{"validUntil":0}` {
		t.Errorf("marshal epoch = %s", outEpoch)
	}
}

func TestTimestamp_StringIsRFC3339Millis(t *testing.T) {
	t.Parallel()

	ts := mustTimestamp(t, 1_541_101_000_123)
	if got := ts.String(); got != "2018-11-01T18:56:40.123Z" {
		t.Errorf("String() = %q, want RFC 3339 with milliseconds", got)
	}
}
