package ledger

import (
	"sort"
	"strconv"

	"golang.org/x/exp/maps"
)

// Read-only accessors for the session and reporting layer. These never
// mutate state; listings come back in a stable order so repeated reports
// line up.

// User returns the user with the given NIC.
func (l *Ledger) User(nic string) (*User, bool) {
	u, ok := l.users[nic]
	return u, ok
}

// Account returns the account with the given number.
func (l *Ledger) Account(number string) (*Account, bool) {
	a, ok := l.accounts[number]
	return a, ok
}

// Users lists every registered user sorted by NIC.
func (l *Ledger) Users() []*User {
	nics := maps.Keys(l.users)
	sort.Strings(nics)
	out := make([]*User, 0, len(nics))
	for _, nic := range nics {
		out = append(out, l.users[nic])
	}
	return out
}

// Accounts lists every account sorted by account number, numerically where
// both numbers parse as integers.
func (l *Ledger) Accounts() []*Account {
	numbers := maps.Keys(l.accounts)
	sort.Slice(numbers, func(i, j int) bool {
		return lessAccountNumber(numbers[i], numbers[j])
	})
	out := make([]*Account, 0, len(numbers))
	for _, num := range numbers {
		out = append(out, l.accounts[num])
	}
	return out
}

// AccountsOwnedBy lists a customer's accounts in creation order. Numbers
// that dangle (owned list references a missing account) are skipped.
func (l *Ledger) AccountsOwnedBy(nic string) []*Account {
	u, ok := l.users[nic]
	if !ok {
		return nil
	}
	out := make([]*Account, 0, len(u.OwnedAccounts))
	for _, num := range u.OwnedAccounts {
		if a, ok := l.accounts[num]; ok {
			out = append(out, a)
		}
	}
	return out
}

// HasAdmin reports whether at least one admin user exists. A ledger without
// one is operable but degraded; the store flags it after load.
func (l *Ledger) HasAdmin() bool {
	for _, u := range l.users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}

// Counts returns the table sizes for diagnostics.
func (l *Ledger) Counts() (users, accounts int) {
	return len(l.users), len(l.accounts)
}

func lessAccountNumber(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
