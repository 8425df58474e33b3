package domain

import (
	"bytes"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Byte lengths of the fixed-size identifiers.
const (
	AddressLength   = 20
	ChannelIDLength = 32
)

// Address is a 20-byte account identifier. Its canonical textual form is
// 0x-prefixed hex with a keccak-256 mixed-case checksum (EIP-55 style).
// Equality and ordering are byte-wise. The zero value is not a valid
// participant address; constructors reject it where a real party is required.
type Address [AddressLength]byte

// ParseAddress decodes a 0x-prefixed hex address string. Input that carries
// case information (mixed case) must have a valid checksum; all-lowercase and
// all-uppercase forms are accepted without a checksum check since they carry
// none. Returns a *ValidationError on wrong length, bad hex, or bad checksum.
func ParseAddress(s string) (Address, error) {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return Address{}, &ValidationError{Fields: map[string]string{
			"address": "must be 0x-prefixed",
		}}
	}
	if len(raw) != AddressLength*2 {
		return Address{}, &ValidationError{Fields: map[string]string{
			"address": "must be 40 hex characters",
		}}
	}

	var a Address
	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return Address{}, &ValidationError{Fields: map[string]string{
			"address": "must be valid hex",
		}}
	}

	if hasMixedCase(raw) && checksumHex(a[:]) != raw {
		return Address{}, &ValidationError{Fields: map[string]string{
			"address": "checksum mismatch",
		}}
	}
	return a, nil
}

// String returns the canonical checksummed form, e.g.
// "0xce07CbB7e054514D590a0262C93070D838bFBA2e".
func (a Address) String() string {
	return "0x" + checksumHex(a[:])
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare orders addresses byte-wise, returning -1, 0, or 1.
func (a Address) Compare(other Address) int {
	return bytes.Compare(a[:], other[:])
}

// MarshalText implements encoding.TextMarshaler using the checksummed form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Decode failures surface
// as *MalformedDataError since they originate from a wire representation.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return malformed("address: %q is not a valid address", limitForDiag(text))
	}
	*a = parsed
	return nil
}

// ChannelID is a 32-byte channel identifier. Its canonical textual form is
// 0x-prefixed lowercase hex. Equality and ordering are byte-wise.
type ChannelID [ChannelIDLength]byte

// ParseChannelID decodes a 0x-prefixed hex channel identifier.
// Returns a *ValidationError on wrong length or bad hex.
func ParseChannelID(s string) (ChannelID, error) {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return ChannelID{}, &ValidationError{Fields: map[string]string{
			"channel_id": "must be 0x-prefixed",
		}}
	}
	if len(raw) != ChannelIDLength*2 {
		return ChannelID{}, &ValidationError{Fields: map[string]string{
			"channel_id": "must be 64 hex characters",
		}}
	}

	var id ChannelID
	if _, err := hex.Decode(id[:], []byte(raw)); err != nil {
		return ChannelID{}, &ValidationError{Fields: map[string]string{
			"channel_id": "must be valid hex",
		}}
	}
	return id, nil
}

// String returns the canonical lowercase hex form.
func (id ChannelID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether the identifier is all zero bytes.
func (id ChannelID) IsZero() bool {
	return id == ChannelID{}
}

// Compare orders channel identifiers byte-wise, returning -1, 0, or 1.
func (id ChannelID) Compare(other ChannelID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ChannelID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ChannelID) UnmarshalText(text []byte) error {
	parsed, err := ParseChannelID(string(text))
	if err != nil {
		return malformed("channel_id: %q is not a valid channel id", limitForDiag(text))
	}
	*id = parsed
	return nil
}

// checksumHex returns the mixed-case hex encoding of b: a hex digit is
// uppercased when the corresponding nibble of keccak256(lowercaseHex) is >= 8.
func checksumHex(b []byte) string {
	lower := hex.EncodeToString(b)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2] >> 4
		if i%2 == 1 {
			nibble = sum[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

// hasMixedCase reports whether s contains both upper- and lowercase hex letters.
func hasMixedCase(s string) bool {
	var hasUpper, hasLower bool
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'F':
			hasUpper = true
		case c >= 'a' && c <= 'f':
			hasLower = true
		}
	}
	return hasUpper && hasLower
}

// maxDiagBytes caps how much of an offending wire value appears in an error.
const maxDiagBytes = 80

// limitForDiag truncates a wire value for inclusion in diagnostics.
func limitForDiag(b []byte) string {
	if len(b) > maxDiagBytes {
		return string(b[:maxDiagBytes]) + "..."
	}
	return string(b)
}
