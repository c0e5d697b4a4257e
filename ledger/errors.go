package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Error types for registry and ledger operations. Every failure mode gets
// its own struct so callers can branch with errors.As instead of matching
// message strings. None of these imply any state change: an operation that
// returns one of them has left the tables untouched.

// ValidationError is returned when input fails a shape or policy check
// before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateUserError is returned when registering a NIC that already exists.
type DuplicateUserError struct {
	NIC string
}

func (e *DuplicateUserError) Error() string {
	return fmt.Sprintf("a user with NIC %q already exists", e.NIC)
}

// AuthError is returned when authentication fails, either on a single wrong
// password or after the bounded retry window is exhausted.
type AuthError struct {
	NIC      string
	Attempts int
}

func (e *AuthError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("authentication failed for %q after %d attempts", e.NIC, e.Attempts)
	}
	return fmt.Sprintf("authentication failed for %q", e.NIC)
}

// NotFoundError is returned when a referenced user or account is absent.
type NotFoundError struct {
	Kind string // "user" or "account"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AmountError is returned when an operation amount violates its policy,
// such as a non-positive deposit or a negative opening balance.
type AmountError struct {
	Op     string
	Amount decimal.Decimal
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%s of %s rejected: %s", e.Op, e.Amount.StringFixed(2), e.Reason)
}

// InsufficientFundsError is returned when a withdrawal or transfer exceeds
// the available balance.
type InsufficientFundsError struct {
	Account   string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: requested %s, available %s",
		e.Account, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// SelfTransferError is returned when a transfer names the same account on
// both sides.
type SelfTransferError struct {
	Account string
}

func (e *SelfTransferError) Error() string {
	return fmt.Sprintf("cannot transfer from account %s to itself", e.Account)
}
