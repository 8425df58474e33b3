package domain

import (
	"math/big"
)

// maxAmountBits bounds Amount at 2^256 - 1, the widest value the wire and
// storage formats commit to carrying.
const maxAmountBits = 256

// maxAmountValue is the upper bound for Amount arithmetic (2^256 - 1).
var maxAmountValue = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), maxAmountBits), big.NewInt(1))

// Amount is an immutable non-negative arbitrary-precision integer used for
// deposits and spend quantities. The zero value is a usable zero amount.
// Arithmetic is checked: operations fail with ErrAmountOverflow or
// ErrAmountUnderflow rather than wrapping or clamping.
//
// The canonical wire form is a decimal string, so arbitrary precision
// survives JSON without float truncation.
type Amount struct {
	v *big.Int
}

// MaxAmount returns the largest representable amount (2^256 - 1).
func MaxAmount() Amount {
	return Amount{v: new(big.Int).Set(maxAmountValue)}
}

// NewAmount creates an Amount from a non-negative int64.
// Returns a *ValidationError for negative input.
func NewAmount(v int64) (Amount, error) {
	if v < 0 {
		return Amount{}, &ValidationError{Fields: map[string]string{
			"amount": "must not be negative",
		}}
	}
	return Amount{v: big.NewInt(v)}, nil
}

// AmountFromBig creates an Amount from a big.Int, copying the value.
// Returns a *ValidationError for negative or out-of-range input.
func AmountFromBig(v *big.Int) (Amount, error) {
	if v == nil || v.Sign() < 0 {
		return Amount{}, &ValidationError{Fields: map[string]string{
			"amount": "must not be negative",
		}}
	}
	if v.Cmp(maxAmountValue) > 0 {
		return Amount{}, &ValidationError{Fields: map[string]string{
			"amount": "exceeds maximum representable value",
		}}
	}
	return Amount{v: new(big.Int).Set(v)}, nil
}

// ParseAmount decodes a decimal string into an Amount.
// Returns a *ValidationError for non-decimal, negative, or fractional input.
func ParseAmount(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, &ValidationError{Fields: map[string]string{
			"amount": "must be a decimal integer",
		}}
	}
	return AmountFromBig(v)
}

// big returns the underlying value, treating the zero Amount as zero.
// Callers must not mutate the result.
func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// CheckedAdd returns a + b, failing with ErrAmountOverflow when the sum
// exceeds the representable maximum. Neither operand is modified.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := new(big.Int).Add(a.big(), b.big())
	if sum.Cmp(maxAmountValue) > 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{v: sum}, nil
}

// CheckedSub returns a - b, failing with ErrAmountUnderflow when the result
// would be negative. Neither operand is modified.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	if a.big().Cmp(b.big()) < 0 {
		return Amount{}, ErrAmountUnderflow
	}
	return Amount{v: new(big.Int).Sub(a.big(), b.big())}, nil
}

// Cmp compares a and b, returning -1, 0, or 1.
func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

// BigInt returns a copy of the underlying integer.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.big())
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.big().String()
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted decimal string. Numbers, fractions, and
// negative values are rejected with a *MalformedDataError; JSON numbers are
// refused because float parsing silently loses precision above 2^53.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return malformed("amount: expected a decimal string, got %s", limitForDiag(data))
	}
	parsed, err := ParseAmount(string(data[1 : len(data)-1]))
	if err != nil {
		return malformed("amount: %s is not a non-negative decimal integer", limitForDiag(data))
	}
	*a = parsed
	return nil
}
