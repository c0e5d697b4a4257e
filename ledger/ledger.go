// Package ledger holds the in-memory state of the banking system: the users
// table, the accounts table, and the next-account-number counter. It owns
// every operation that mutates that state (registration, authentication,
// account opening, deposits, withdrawals, transfers, interest accrual) and
// exposes read-only accessors for reporting.
//
// The ledger validates before it mutates: an operation either completes in
// full or returns a typed error with no observable state change. Persistence
// is someone else's job — callers snapshot the ledger through Snapshot and
// hand it to the store after every successful mutation.
//
// All monetary values use decimal arithmetic to avoid floating point drift.
package ledger

import (
	"strconv"
	"time"
)

// DefaultNextNumber is the first account number ever assigned, used when no
// counter has been persisted yet.
const DefaultNextNumber = 1001

// now returns the current time at the precision the wire format can carry.
// Package-level so tests can pin it.
var now = func() time.Time {
	return time.Now().Truncate(time.Second)
}

// Ledger is the single mutable working copy of the system state. One
// process, one Ledger, one flow of control; there is no locking because the
// system assumes a single writer.
type Ledger struct {
	users      map[string]*User
	accounts   map[string]*Account
	nextNumber int64
}

// New creates an empty ledger with the counter at its default.
func New() *Ledger {
	return &Ledger{
		users:      make(map[string]*User),
		accounts:   make(map[string]*Account),
		nextNumber: DefaultNextNumber,
	}
}

// Snapshot is the full ledger state in a form the persistence layer can
// write out and load back.
type Snapshot struct {
	Users      map[string]*User
	Accounts   map[string]*Account
	NextNumber int64
}

// Snapshot exports the current state. The maps are copied; the records
// themselves are shared, so the snapshot must be written out before the
// next mutation.
func (l *Ledger) Snapshot() Snapshot {
	users := make(map[string]*User, len(l.users))
	for nic, u := range l.users {
		users[nic] = u
	}
	accounts := make(map[string]*Account, len(l.accounts))
	for num, a := range l.accounts {
		accounts[num] = a
	}
	return Snapshot{Users: users, Accounts: accounts, NextNumber: l.nextNumber}
}

// FromSnapshot builds a ledger from loaded state, normalizing records on the
// way in: customers get a non-nil owned-accounts list, accounts get a
// non-nil transaction list, and a non-positive counter falls back to the
// default.
func FromSnapshot(s Snapshot) *Ledger {
	l := New()
	for nic, u := range s.Users {
		if u.IsCustomer() && u.OwnedAccounts == nil {
			u.OwnedAccounts = []string{}
		}
		l.users[nic] = u
	}
	for num, a := range s.Accounts {
		if a.Transactions == nil {
			a.Transactions = []Transaction{}
		}
		l.accounts[num] = a
	}
	if s.NextNumber > 0 {
		l.nextNumber = s.NextNumber
	}
	return l
}

// NextNumber returns the counter value that would be assigned next, before
// any self-healing skip over existing account numbers.
func (l *Ledger) NextNumber() int64 {
	return l.nextNumber
}

// allocateAccountNumber returns a fresh account number. A stale persisted
// counter can sit at or below numbers that are already taken, so allocation
// skips forward past every existing key before claiming one.
func (l *Ledger) allocateAccountNumber() string {
	for {
		num := strconv.FormatInt(l.nextNumber, 10)
		l.nextNumber++
		if _, taken := l.accounts[num]; !taken {
			return num
		}
	}
}
