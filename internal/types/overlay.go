// Package types contains shared types used across the application.
package types

// Kind identifies which surface an overlay is rendered as
type Kind int

const (
	KindDialog Kind = iota
	KindDrawer
	KindConfirm
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindDialog:
		return "dialog"
	case KindDrawer:
		return "drawer"
	case KindConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of an overlay.
// Transitions only move forward: opening -> open -> dismissing -> dismissed.
type Status int

const (
	StatusOpening Status = iota
	StatusOpen
	StatusDismissing
	StatusDismissed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusOpening:
		return "opening"
	case StatusOpen:
		return "open"
	case StatusDismissing:
		return "dismissing"
	case StatusDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to next is a legal single step
func (s Status) CanTransition(next Status) bool {
	return next == s+1 && next <= StatusDismissed
}

// Live reports whether the overlay still accepts dismissal triggers
func (s Status) Live() bool {
	return s == StatusOpening || s == StatusOpen
}

// Reason tells a controller why it is being dismissed
type Reason int

const (
	ReasonExplicit Reason = iota
	ReasonOutsideClick
	ReasonEscapeKey
	ReasonConfirmed
	ReasonCancelled
)

// String returns the string representation of the reason
func (r Reason) String() string {
	switch r {
	case ReasonExplicit:
		return "explicit"
	case ReasonOutsideClick:
		return "outside_click"
	case ReasonEscapeKey:
		return "escape_key"
	case ReasonConfirmed:
		return "confirmed"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SettlementState is the outcome of a confirm overlay
type SettlementState int

const (
	SettlementPending SettlementState = iota
	SettlementConfirmed
	SettlementCancelled
	SettlementFailed
)

// String returns the string representation of the settlement state
func (s SettlementState) String() string {
	switch s {
	case SettlementPending:
		return "pending"
	case SettlementConfirmed:
		return "confirmed"
	case SettlementCancelled:
		return "cancelled"
	case SettlementFailed:
		return "failed"
	default:
		return "unknown"
	}
}
