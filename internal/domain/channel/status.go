package channel

// Status represents the lifecycle state of a Channel.
type Status string

const (
	// StatusActive accepts spends. Channels are created Active when their
	// deposit is first observed.
	StatusActive Status = "active"

	// StatusWithdrawing marks a channel whose withdrawal has been
	// requested; no further spends are accepted.
	StatusWithdrawing Status = "withdrawing"

	// StatusClosed is terminal. No transition leaves it.
	StatusClosed Status = "closed"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusWithdrawing, StatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Permitted edges: Active→Withdrawing, Active→Closed,
// Withdrawing→Closed. Closed is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusWithdrawing || next == StatusClosed
	case StatusWithdrawing:
		return next == StatusClosed
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
