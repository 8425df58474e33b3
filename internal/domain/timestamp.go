package domain

import (
	"strconv"
	"time"
)

// Timestamp is a point in time with millisecond resolution. The canonical
// wire form is an integer count of milliseconds since the Unix epoch, never
// a string and never a fractional number. An optional timestamp is modeled
// as *Timestamp and encodes absence as JSON null, which is distinguishable
// from a present zero (epoch) value by construction.
//
// The zero value is the Unix epoch. Comparison is a total order.
type Timestamp struct {
	ms int64
}

// NewTimestamp converts a time.Time, truncating to millisecond resolution.
// Returns a *ValidationError for instants before the Unix epoch, which the
// wire format does not represent.
func NewTimestamp(t time.Time) (Timestamp, error) {
	return TimestampFromMillis(t.UnixMilli())
}

// TimestampFromMillis creates a Timestamp from epoch milliseconds.
// Returns a *ValidationError for negative input.
func TimestampFromMillis(ms int64) (Timestamp, error) {
	if ms < 0 {
		return Timestamp{}, &ValidationError{Fields: map[string]string{
			"timestamp": "must not precede the Unix epoch",
		}}
	}
	return Timestamp{ms: ms}, nil
}

// Now returns the current instant at millisecond resolution.
func Now() Timestamp {
	return Timestamp{ms: time.Now().UnixMilli()}
}

// Time converts back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(t.ms).UTC()
}

// UnixMilli returns the epoch millisecond count.
func (t Timestamp) UnixMilli() int64 {
	return t.ms
}

// Before reports whether t precedes other.
func (t Timestamp) Before(other Timestamp) bool {
	return t.ms < other.ms
}

// After reports whether t follows other.
func (t Timestamp) After(other Timestamp) bool {
	return t.ms > other.ms
}

// Equal reports whether t and other are the same instant.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.ms == other.ms
}

// Compare returns -1, 0, or 1 ordering t against other.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.ms < other.ms:
		return -1
	case t.ms > other.ms:
		return 1
	default:
		return 0
	}
}

// String returns the RFC 3339 form with millisecond precision, for logs and
// diagnostics only; the wire form is the integer millisecond count.
func (t Timestamp) String() string {
	return t.Time().Format("2006-01-02T15:04:05.000Z07:00")
}

// MarshalJSON encodes the epoch millisecond count as a JSON integer.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, t.ms, 10), nil
}

// UnmarshalJSON decodes an integer millisecond count. Strings, fractional
// numbers, and negative values are rejected with a *MalformedDataError.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return malformed("timestamp: expected integer milliseconds, got %s", limitForDiag(data))
	}
	parsed, err := TimestampFromMillis(ms)
	if err != nil {
		return malformed("timestamp: %s precedes the Unix epoch", limitForDiag(data))
	}
	*t = parsed
	return nil
}
